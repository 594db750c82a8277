package cache

// RenderedContent is cached rendered markdown, keyed by content hash so a
// body re-renders only when it actually changed.
type RenderedContent struct {
	HTML []byte
}

var renderedMarkdownCache = NewCache[string, *RenderedContent]()

func GetRenderedMarkdown(contentHash string) (*RenderedContent, bool) {
	return renderedMarkdownCache.Get(contentHash)
}

func SetRenderedMarkdown(contentHash string, content *RenderedContent) {
	renderedMarkdownCache.Set(contentHash, content)
}

func InvalidateRenderedMarkdown(contentHash string) {
	renderedMarkdownCache.Delete(contentHash)
}
