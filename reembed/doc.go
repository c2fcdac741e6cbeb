// Package reembed recomputes the embeddings of an existing enriched corpus
// with a new or updated embedding model.
//
// Records are read from a corpus, grouped into batches, and each batch is
// embedded with a single EmbedTexts call over the records' basis text.
// Nothing is re-extracted: tl_dr, tags, key terms and quotes are carried
// over unchanged.
package reembed
