package web

import (
	"bytes"
	"net/http"
	"strings"

	"companion-app/frontend/internal/identity"
	"companion-app/frontend/pkg/cache"

	"github.com/gin-gonic/gin"
)

const pageKeyPrefix = "page:"

type cachedPage struct {
	status      int
	contentType string
	body        []byte
}

// PageCache keeps rendered anonymous pages until their path is revalidated
// or the TTL passes.
type PageCache struct {
	pages *cache.Cache
}

// NewPageCache wraps c.
func NewPageCache(c *cache.Cache) *PageCache {
	return &PageCache{pages: c}
}

func pageKey(path, rawQuery string) string {
	if rawQuery == "" {
		return pageKeyPrefix + path
	}
	return pageKeyPrefix + path + "?" + rawQuery
}

// Invalidate drops every cached rendering of path, whatever its query.
func (p *PageCache) Invalidate(path string) {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	p.pages.Delete(pageKey(path, ""))
	p.pages.DeletePrefix(pageKey(path, "") + "?")
}

type recordingWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *recordingWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *recordingWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// Middleware serves and stores successful GET renderings for anonymous
// callers. It must run after the identity middleware.
func (p *PageCache) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet || identity.FromContext(c.Request.Context()).Authenticated() {
			c.Next()
			return
		}

		key := pageKey(c.Request.URL.Path, c.Request.URL.RawQuery)
		if v, ok := p.pages.Get(key); ok {
			page := v.(cachedPage)
			c.Header("X-Cache", "HIT")
			c.Data(page.status, page.contentType, page.body)
			c.Abort()
			return
		}

		rec := &recordingWriter{ResponseWriter: c.Writer}
		c.Writer = rec
		c.Next()

		if rec.Status() == http.StatusOK && !c.GetBool(noStoreKey) {
			p.pages.Set(key, cachedPage{
				status:      rec.Status(),
				contentType: rec.Header().Get("Content-Type"),
				body:        bytes.Clone(rec.body.Bytes()),
			})
		}
	}
}

// noStoreKey marks a response that must not be cached, such as a page
// rendered with a failure toast.
const noStoreKey = "pagecache.noStore"
