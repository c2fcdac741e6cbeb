package corpus

import "errors"

var (
	// ErrInvalidArticles indicates the input file is not a JSON array of articles.
	ErrInvalidArticles = errors.New("invalid articles file")

	// ErrInvalidCorpus indicates the file is not a JSON array of enriched articles.
	ErrInvalidCorpus = errors.New("invalid corpus file")
)
