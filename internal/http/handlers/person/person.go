// Package person contains the HTTP handlers of the Person resource.
//
// Each handler is built by a factory that receives the storage
// dependency and returns the http.HandlerFunc the router calls on every
// request:
//
//	router.HandleFunc("GET /{$}", person.List(storage))
//
// Every request reads fresh data from the store; nothing is cached
// between requests. Store failures are logged and mapped to an HTTP
// status and an error page, never to a crash.
package person

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/aanand-mishra/persons-app/internal/http/middleware"
	"github.com/aanand-mishra/persons-app/internal/storage"
	"github.com/aanand-mishra/persons-app/internal/types"
	"github.com/aanand-mishra/persons-app/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

// validate is shared: a Validator caches struct metadata and is safe for
// concurrent use.
var validate = validator.New()

var errAgeNotInteger = errors.New("field age must be an integer")

// Register mounts the five person routes on mux.
//
//	GET  /               → list page with the create form
//	POST /submit         → create, or update when the form carries an id
//	POST /update/{id}    → edit form pre-filled with the record
//	POST /submit-update  → update from the edit form
//	POST /delete/{id}    → delete
func Register(mux *http.ServeMux, s storage.Storage) {
	mux.Handle("GET /{$}", middleware.Instrument("list", List(s)))
	mux.Handle("POST /submit", middleware.Instrument("submit", Submit(s)))
	mux.Handle("POST /update/{id}", middleware.Instrument("edit", Edit(s)))
	mux.Handle("POST /submit-update", middleware.Instrument("submit_update", SubmitUpdate(s)))
	mux.Handle("POST /delete/{id}", middleware.Instrument("delete", Delete(s)))
}

// decodeForm reads the person form. Age must parse as an integer on
// every write path.
func decodeForm(r *http.Request) (string, types.Person, error) {
	if err := r.ParseForm(); err != nil {
		return "", types.Person{}, err
	}

	get := func(key string) string { return strings.TrimSpace(r.PostForm.Get(key)) }

	p := types.Person{
		Name:   get("name"),
		Gender: get("gender"),
		Mobile: get("mobile"),
	}

	age, err := strconv.Atoi(get("age"))
	if err != nil {
		return "", types.Person{}, errAgeNotInteger
	}
	p.Age = age

	if err := validate.Struct(p); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return "", types.Person{}, errors.New(response.ValidationError(verrs))
		}
		return "", types.Person{}, err
	}

	return get("id"), p, nil
}

func serverError(w http.ResponseWriter, log *slog.Logger, msg string, err error) {
	log.Error(msg, slog.String("error", err.Error()))
	if werr := response.WriteError(w, http.StatusInternalServerError, errors.New("the person store is unavailable")); werr != nil {
		log.Error("write response", slog.String("error", werr.Error()))
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// List handles GET /
// Renders the create form and every stored person. On a store failure the
// page is still rendered, with an empty list and an error banner, and
// status 500.
// ─────────────────────────────────────────────────────────────────────────────
func List(s storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := middleware.LoggerFrom(r.Context())
		log.Info("listing persons")

		status := http.StatusOK
		persons, err := s.GetPersons(r.Context())
		page := response.NewListPage(persons)
		if err != nil {
			log.Error("error listing persons", slog.String("error", err.Error()))
			status = http.StatusInternalServerError
			page = response.NewListPage(nil)
			page.Error = "Could not load persons; the list below may be incomplete."
		}

		if err := response.WriteHTML(w, status, response.ViewIndex, page); err != nil {
			log.Error("write response", slog.String("error", err.Error()))
		}
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Submit handles POST /submit
// Without an id it creates a person; with an id it overwrites all four
// attributes of that person. Success redirects to the list.
//
// Error responses:
//
//	400 Bad Request  — missing field, non-integer age, malformed id
//	404 Not Found    — id matches no person
//	500 Internal     — store failure
//
// ─────────────────────────────────────────────────────────────────────────────
func Submit(s storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := middleware.LoggerFrom(r.Context())

		id, p, err := decodeForm(r)
		if err != nil {
			log.Info("rejected person form", slog.String("error", err.Error()))
			response.WriteError(w, http.StatusBadRequest, err)
			return
		}

		if id == "" {
			newID, err := s.CreatePerson(r.Context(), p)
			if err != nil {
				serverError(w, log, "error creating person", err)
				return
			}
			log.Info("person created", slog.String("id", newID), slog.String("name", p.Name))
			response.Redirect(w, r)
			return
		}

		res, err := s.UpdatePersonByID(r.Context(), id, p)
		switch {
		case errors.Is(err, storage.ErrInvalidID):
			response.WriteError(w, http.StatusBadRequest, err)
			return
		case err != nil:
			serverError(w, log, "error updating person", err)
			return
		case res.Matched == 0:
			log.Info("no person to update", slog.String("id", id))
			response.WriteError(w, http.StatusNotFound, storage.ErrNotFound)
			return
		}

		log.Info("person updated", slog.String("id", id))
		response.Redirect(w, r)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Edit handles POST /update/{id}
// Returns the edit form pre-filled with the person's current values, or
// redirects to the list when no such person exists.
// ─────────────────────────────────────────────────────────────────────────────
func Edit(s storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		log := middleware.LoggerFrom(r.Context()).With(slog.String("id", id))
		log.Info("fetching person for edit")

		p, err := s.GetPersonByID(r.Context(), id)
		if errors.Is(err, storage.ErrNotFound) || errors.Is(err, storage.ErrInvalidID) {
			log.Info("no person to edit")
			response.Redirect(w, r)
			return
		}
		if err != nil {
			serverError(w, log, "error fetching person", err)
			return
		}

		if err := response.WriteHTML(w, http.StatusOK, response.ViewEdit, response.EditForm(p)); err != nil {
			log.Error("write response", slog.String("error", err.Error()))
		}
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// SubmitUpdate handles POST /submit-update
// Confirms success only when the store reports that exactly one person
// changed; anything else (unknown id, identical values) goes back to the
// list without confirmation.
// ─────────────────────────────────────────────────────────────────────────────
func SubmitUpdate(s storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := middleware.LoggerFrom(r.Context())

		id, p, err := decodeForm(r)
		if err == nil && id == "" {
			err = errors.New("field id is required")
		}
		if err != nil {
			log.Info("rejected person form", slog.String("error", err.Error()))
			response.WriteError(w, http.StatusBadRequest, err)
			return
		}

		res, err := s.UpdatePersonByID(r.Context(), id, p)
		if err != nil && !errors.Is(err, storage.ErrInvalidID) {
			serverError(w, log, "error updating person", err)
			return
		}

		if res.Modified != 1 {
			log.Info("no person modified", slog.String("id", id), slog.Int64("matched", res.Matched))
			response.Redirect(w, r)
			return
		}

		log.Info("person updated", slog.String("id", id))
		if err := response.WriteHTML(w, http.StatusOK, response.ViewUpdated, nil); err != nil {
			log.Error("write response", slog.String("error", err.Error()))
		}
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Delete handles POST /delete/{id}
// Deleting an unknown id is a no-op. Always redirects to the list unless
// the store fails.
// ─────────────────────────────────────────────────────────────────────────────
func Delete(s storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		log := middleware.LoggerFrom(r.Context()).With(slog.String("id", id))

		n, err := s.DeletePersonByID(r.Context(), id)
		if err != nil && !errors.Is(err, storage.ErrInvalidID) {
			serverError(w, log, "error deleting person", err)
			return
		}

		if n == 1 {
			log.Info("person deleted")
		} else {
			log.Info("no person found to delete")
		}
		response.Redirect(w, r)
	}
}
