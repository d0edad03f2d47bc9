// Package response renders the HTML pages and fragments the handlers
// send back, and converts errors into messages fit for those pages.
//
// Templates live in templates/ and are embedded into the binary. Handlers
// never build markup themselves: they fill one of the view models below
// and hand it to WriteHTML.
package response

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/aanand-mishra/persons-app/internal/types"
	"github.com/go-playground/validator/v10"
)

//go:embed templates/*.html
var templatesFS embed.FS

var templates = template.Must(template.ParseFS(templatesFS, "templates/*.html"))

// View names accepted by WriteHTML.
const (
	ViewIndex   = "index.html"
	ViewEdit    = "edit.html"
	ViewUpdated = "updated.html"
	ViewError   = "error.html"
)

// Form is the view model of the person form. Values are kept as the
// strings the user typed so a rejected submission can be shown again.
type Form struct {
	Action string
	Submit string
	ID     string
	Name   string
	Age    string
	Gender string
	Mobile string
}

// CreateForm is the empty form on the list page. Its hidden id stays
// empty, so submitting it creates a new person.
func CreateForm() Form {
	return Form{Action: "/submit", Submit: "Submit"}
}

// EditForm is the form pre-filled with p, posting to /submit-update.
func EditForm(p types.Person) Form {
	return Form{
		Action: "/submit-update",
		Submit: "Update",
		ID:     p.ID,
		Name:   p.Name,
		Age:    strconv.Itoa(p.Age),
		Gender: p.Gender,
		Mobile: p.Mobile,
	}
}

// ListPage is the view model of the full page served on GET /.
type ListPage struct {
	Persons []types.Person
	Form    Form
	Error   string
	Year    int
}

func NewListPage(persons []types.Person) ListPage {
	return ListPage{Persons: persons, Form: CreateForm(), Year: time.Now().Year()}
}

// ErrorPage is the view model of error.html.
type ErrorPage struct {
	Status string
	Error  string
}

// WriteHTML renders view with data and writes it with the given status.
// The template is executed into a buffer first so a rendering failure
// yields a clean 500 instead of a half-written page.
func WriteHTML(w http.ResponseWriter, status int, view string, data any) error {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, view, data); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return fmt.Errorf("render %s: %w", view, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// WriteError renders the error page for err with the given status.
func WriteError(w http.ResponseWriter, status int, err error) error {
	return WriteHTML(w, status, ViewError, GeneralError(status, err))
}

// Redirect sends the browser back to the list page. 303 makes the
// browser follow with a GET after a form POST.
func Redirect(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// GeneralError wraps any error into the error page view model.
func GeneralError(status int, err error) ErrorPage {
	return ErrorPage{
		Status: fmt.Sprintf("%d %s", status, http.StatusText(status)),
		Error:  err.Error(),
	}
}

// ValidationError converts validator field errors into one readable
// message, e.g. "field name is required, field mobile is required".
func ValidationError(errs validator.ValidationErrors) string {
	var errMessages []string

	for _, e := range errs {
		field := strings.ToLower(e.Field())
		switch e.ActualTag() {
		case "required":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s is required", field))
		case "gte", "min":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s must be at least %s", field, e.Param()))
		default:
			errMessages = append(errMessages,
				fmt.Sprintf("field %s is invalid", field))
		}
	}

	return strings.Join(errMessages, ", ")
}
