package littlehouse

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/otiai10/copy"

	"github.com/eringen/littlehouse/i18n"
)

// Export renders every public page in every locale, the feeds, the sitemap
// and the JSON listing into outDir, then copies the static directory to
// outDir/public. Pages become <path>/index.html.
func (a *App) Export(outDir string) error {
	if err := a.Setup(); err != nil {
		return err
	}
	posts, err := a.Cache.ListPublished()
	if err != nil {
		return err
	}

	paths := []string{"/feed.xml", "/atom.xml", "/sitemap.xml", "/robots.txt", "/api/posts", "/api/posts?all=true"}
	for _, l := range i18n.Locales {
		for _, u := range sitemapPaths(posts) {
			paths = append(paths, i18n.AddPrefix(u.Loc, l))
		}
	}

	for _, p := range paths {
		if err := a.exportPath(outDir, p); err != nil {
			return err
		}
	}
	a.Echo.Logger.Infof("exported %d files to %s", len(paths), outDir)

	if _, err := os.Stat(a.Config.StaticDir); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	dest := filepath.Join(outDir, "public")
	a.Echo.Logger.Infof("copying %s to %s", a.Config.StaticDir, dest)
	return copy.Copy(a.Config.StaticDir, dest)
}

func (a *App) exportPath(outDir, target string) error {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	a.Echo.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		return fmt.Errorf("export %s: status %d", target, rec.Code)
	}
	name := exportFileName(target)
	dest := filepath.Join(outDir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("export %s: %w", target, err)
	}
	if err := os.WriteFile(dest, rec.Body.Bytes(), 0o644); err != nil {
		return fmt.Errorf("export %s: %w", target, err)
	}
	return nil
}

// exportFileName maps a request path onto the file that serves it
// statically. Escaped path segments are written unescaped.
func exportFileName(target string) string {
	path, query, _ := strings.Cut(target, "?")
	if path == "/api/posts" {
		if query == "all=true" {
			return "api/posts/all.json"
		}
		return "api/posts/index.json"
	}
	if unescaped, err := url.PathUnescape(path); err == nil {
		path = unescaped
	}
	path = strings.TrimPrefix(path, "/")
	if path == "" || strings.HasSuffix(path, "/") {
		return path + "index.html"
	}
	return path
}
