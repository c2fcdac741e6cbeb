package badger

const articlePrefix = "article:"

// makeArticleKey builds the storage key of an article from its identity key.
func makeArticleKey(identityKey string) []byte {
	return []byte(articlePrefix + identityKey)
}
