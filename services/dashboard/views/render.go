// Package views renders the dashboard's HTML pages.
package views

import (
	"embed"
	"errors"
	"html/template"
	"io"
	"io/fs"
	"strconv"

	"github.com/monai/airquality-dashboard/services/dashboard/dashboard"
	"github.com/monai/airquality-dashboard/services/dashboard/series"
)

//go:embed templates
var viewsFS embed.FS

// emptyCell marks a date without a value for a series.
const emptyCell = "–"

var pageTmpl *template.Template

var funcs = template.FuncMap{
	"color":  series.ColorForKey,
	"legend": series.Key.Label,
	"cell":   cell,
	"stat":   stat,
}

// loadTemplatesFromFS loads page templates from the given fs and dir.
func loadTemplatesFromFS(fsys fs.FS, dir string) error {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		return err
	}
	t, err := template.New("").Funcs(funcs).ParseFS(sub, "*.html", "partials/*.html")
	if err != nil {
		return err
	}
	pageTmpl = t
	return nil
}

// LoadTemplates loads embedded templates. Call during startup before serving
// requests; if it returns an error, do not start the server.
func LoadTemplates() error {
	return loadTemplatesFromFS(viewsFS, "templates")
}

// DashboardData is the view model of the dashboard page.
type DashboardData struct {
	Title    string
	ChartURL string
	APIBase  string
	View     dashboard.View
}

// AdminData is the view model of the admin page.
type AdminData struct {
	Title   string
	APIBase string
}

func RenderDashboard(w io.Writer, data *DashboardData) error {
	if pageTmpl == nil {
		return errors.New("dashboard template not loaded: call views.LoadTemplates during startup")
	}
	return pageTmpl.ExecuteTemplate(w, "dashboard.html", data)
}

func RenderAdmin(w io.Writer, data *AdminData) error {
	if pageTmpl == nil {
		return errors.New("admin template not loaded: call views.LoadTemplates during startup")
	}
	return pageTmpl.ExecuteTemplate(w, "admin.html", data)
}

// RenderSeriesTable executes only the series table partial.
func RenderSeriesTable(w io.Writer, v dashboard.View) error {
	if pageTmpl == nil {
		return errors.New("series table template not loaded: call views.LoadTemplates during startup")
	}
	return pageTmpl.ExecuteTemplate(w, "series_table", v)
}

func cell(row series.Row, key series.Key) string {
	v, ok := row.Value(key)
	if !ok {
		return emptyCell
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func stat(v *float64) string {
	if v == nil {
		return emptyCell
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}
