package handlers

import (
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"trip-guide/internal/config"
	"trip-guide/internal/guide"
	"trip-guide/internal/middleware"
	"trip-guide/internal/views"
)

var (
	templates     *template.Template
	templatesErr  error
	templatesOnce sync.Once
	cfg           *config.Config
)

// SetConfig sets the config for debug logging
func SetConfig(c *config.Config) {
	cfg = c
}

func debugf(format string, v ...any) {
	if cfg != nil {
		cfg.Debugf(format, v...)
	}
}

// InitTemplates parses the embedded templates. Call it at startup so a
// broken template fails the boot instead of the first request.
func InitTemplates() error {
	initTemplates()
	return templatesErr
}

var tabTitles = map[string]string{
	guide.TabItinerary: "Itinerary",
	guide.TabSchedule:  "Schedule",
	guide.TabParties:   "Parties",
	guide.TabTalent:    "Talent",
	guide.TabInfo:      "Info",
	guide.TabFAQ:       "FAQ",
}

func initTemplates() {
	templatesOnce.Do(func() {
		entries, err := fs.ReadDir(views.TemplatesFS, ".")
		if err != nil {
			templatesErr = fmt.Errorf("read template directory: %w", err)
			return
		}
		var names []string
		for _, entry := range entries {
			if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".html") {
				names = append(names, entry.Name())
			}
		}
		if len(names) == 0 {
			templatesErr = fmt.Errorf("no template files found in embedded filesystem")
			return
		}
		debugf("templates found: %s", strings.Join(names, ", "))

		funcMap := template.FuncMap{
			"clock": guide.FormatClock,
			"tabTitle": func(tab string) string {
				if t, ok := tabTitles[tab]; ok {
					return t
				}
				return tab
			},
			"since": func(t time.Time) string {
				return guide.Since(t, time.Now())
			},
		}
		templates, templatesErr = template.New("").Funcs(funcMap).ParseFS(views.TemplatesFS, "*.html")
	})
}

// Map template filenames to their content template names
var contentTemplateMap = map[string]string{
	"login.html":     "login_content",
	"guide.html":     "guide_content",
	"admin.html":     "admin_content",
	"not_found.html": "not_found_content",
}

// Templates that use auth_layout instead of main layout
var authLayoutTemplates = map[string]bool{
	"login.html": true,
}

func renderTemplate(w http.ResponseWriter, r *http.Request, status int, name string, data map[string]any) {
	initTemplates()
	if templatesErr != nil {
		zap.L().Error("templates not initialized", zap.Error(templatesErr))
		http.Error(w, "Templates not initialized", http.StatusInternalServerError)
		return
	}

	contentTemplateName, ok := contentTemplateMap[name]
	if !ok || templates.Lookup(contentTemplateName) == nil {
		zap.L().Error("content template not found", zap.String("template", name))
		http.Error(w, fmt.Sprintf("Content template for '%s' not found", name), http.StatusInternalServerError)
		return
	}

	if data == nil {
		data = make(map[string]any)
	}
	data["ContentTemplate"] = contentTemplateName
	if _, ok := data["UserRole"]; !ok && r != nil {
		data["UserRole"] = middleware.GetUserRole(r)
	}

	layoutName := "layout"
	if authLayoutTemplates[name] {
		layoutName = "auth_layout"
	}

	// Render into a buffer first so a template error can still produce a 500.
	var buf strings.Builder
	if err := templates.ExecuteTemplate(&buf, layoutName, data); err != nil {
		zap.L().Error("template execute error", zap.String("template", name), zap.Error(err))
		http.Error(w, "Template execute error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(buf.String()))
	debugf("template %s rendered", name)
}
