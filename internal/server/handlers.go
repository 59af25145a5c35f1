package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/a-h/templ"
	seoerrors "github.com/conneroisu/seo/internal/errors"
	"github.com/conneroisu/seo/internal/middleware"
	"github.com/conneroisu/seo/internal/page"
	"github.com/conneroisu/seo/internal/render"
	"github.com/conneroisu/seo/internal/seo"
)

// loadManager applies the page file to the request's Manager. The file is
// read on every request so edits show up on reload.
func (s *PreviewServer) loadManager(r *http.Request) (*seo.Manager, error) {
	m, ok := middleware.FromContext(r.Context())
	if !ok {
		return nil, seoerrors.NewInternalError(seoerrors.ErrCodeInternalError, "no tag manager bound to request", nil)
	}

	p, err := page.Load(s.config.Preview.Page)
	if err != nil {
		return nil, err
	}
	if err := p.Apply(m); err != nil {
		return nil, err
	}
	if !m.Has(seo.KeyURL) {
		m.WithURL()
	}
	return m, nil
}

func (s *PreviewServer) handlePreview(w http.ResponseWriter, r *http.Request) {
	s.renderRoute(w, r, "preview", func(m *seo.Manager) templ.Component {
		return previewPage(m, s.views)
	})
}

func (s *PreviewServer) handleHead(w http.ResponseWriter, r *http.Request) {
	s.renderRoute(w, r, "head", func(m *seo.Manager) templ.Component {
		return render.Head(m, s.views)
	})
}

func (s *PreviewServer) renderRoute(w http.ResponseWriter, r *http.Request, route string, component func(*seo.Manager) templ.Component) {
	m, err := s.loadManager(r)
	if err != nil {
		s.fail(w, r, route, err)
		return
	}

	var buf bytes.Buffer
	if err := component(m).Render(r.Context(), &buf); err != nil {
		s.fail(w, r, route, seoerrors.WrapRender(err, "failed to render "+route, "server"))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := buf.WriteTo(w); err != nil {
		s.logger.Warn(r.Context(), err, "Client went away", "route", route)
		return
	}

	s.metrics.renders.WithLabelValues(route).Inc()
	for _, missing := range s.views.Missing(m) {
		s.logger.Warn(r.Context(), nil, "Extension has no view", "view", missing)
	}
}

// tagsResponse is the body of /api/tags.
type tagsResponse struct {
	Values seo.Snapshot  `json:"values"`
	Tags   []seo.RawTag `json:"tags"`
}

func (s *PreviewServer) handleTags(w http.ResponseWriter, r *http.Request) {
	m, err := s.loadManager(r)
	if err != nil {
		s.fail(w, r, "tags", err)
		return
	}

	resp := tagsResponse{Values: m.All(), Tags: m.Tags()}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Error(r.Context(), err, "Failed to encode tags")
		return
	}
	s.metrics.renders.WithLabelValues("tags").Inc()
}

func (s *PreviewServer) fail(w http.ResponseWriter, r *http.Request, route string, err error) {
	s.metrics.renderErrors.WithLabelValues(route).Inc()
	s.logger.Error(r.Context(), err, "Render failed", "route", route)

	status := http.StatusInternalServerError
	if seoerrors.HasCode(err, seoerrors.ErrCodeFileNotFound) {
		status = http.StatusNotFound
	}
	http.Error(w, err.Error(), status)
}

const reloadScript = `<script>
(function () {
  var proto = location.protocol === "https:" ? "wss:" : "ws:";
  var ws = new WebSocket(proto + "//" + location.host + "/ws");
  ws.onmessage = function (e) { if (e.data === "reload") location.reload(); };
})();
</script>
`

// previewPage wraps the head in a document whose body lists every
// resolved tag.
func previewPage(m *seo.Manager, views *render.Views) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, "<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\" />\n"); err != nil {
			return err
		}
		if err := render.Head(m, views).Render(ctx, w); err != nil {
			return err
		}
		if _, err := io.WriteString(w, reloadScript+"</head>\n<body>\n<table>\n"); err != nil {
			return err
		}

		var writeErr error
		m.All().Each(func(key string, v seo.Value) {
			if writeErr != nil {
				return
			}
			_, writeErr = fmt.Fprintf(w, "<tr><th>%s</th><td>%s</td></tr>\n",
				templ.EscapeString(key), templ.EscapeString(v.String()))
		})
		if writeErr != nil {
			return writeErr
		}

		_, err := io.WriteString(w, "</table>\n</body>\n</html>\n")
		return err
	})
}
