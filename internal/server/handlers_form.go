package server

import (
	"errors"
	"log"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/jonathan/resume-form/internal/form"
	"github.com/jonathan/resume-form/internal/server/middleware"
	"github.com/jonathan/resume-form/internal/types"
	"golang.org/x/sync/errgroup"
)

// sectionParams are the path parameters of the item routes.
type sectionParams struct {
	Section string `validate:"required,oneof=education workHistory skills projectDetails interestsDetails"`
	Index   int    `validate:"gte=0"`
}

// controller returns the form controller of the request's session.
func (s *Server) controller(r *http.Request) (*form.Controller, error) {
	id, err := middleware.GetSessionID(r)
	if err != nil {
		return nil, &ErrNoSession{Cause: err}
	}
	return s.sessions.Get(id), nil
}

// sectionFromPath validates the {section} and optional {index} path values.
func (s *Server) sectionFromPath(r *http.Request, withIndex bool) (types.SectionName, int, error) {
	params := sectionParams{Section: r.PathValue("section")}
	if withIndex {
		index, err := strconv.Atoi(r.PathValue("index"))
		if err != nil {
			return "", 0, &ErrValidation{Field: "Index", Message: "numeric"}
		}
		params.Index = index
	}
	if err := s.validate.Struct(params); err != nil {
		return "", 0, extractValidationErrors(err)
	}
	section, err := types.ParseSectionName(params.Section)
	if err != nil {
		return "", 0, err
	}
	return section, params.Index, nil
}

// wantsJSON reports whether the client asked for a JSON response.
func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

// shownInForm reports whether err is already visible in the rendered form,
// so an HTML client only needs to be sent back to it.
func shownInForm(err error) bool {
	return errors.Is(err, form.ErrIncompleteItem) || errors.Is(err, form.ErrSubmitFailed)
}

// respond finishes a form action. JSON clients get the new snapshot or an
// error; HTML clients are redirected back to the form (303).
func (s *Server) respond(w http.ResponseWriter, r *http.Request, c *form.Controller, err error) {
	if wantsJSON(r) {
		if err != nil {
			s.errorResponse(w, HTTPStatus(err), publicMessage(err))
			return
		}
		s.jsonResponse(w, http.StatusOK, c.Snapshot())
		return
	}

	if err != nil && !shownInForm(err) {
		http.Error(w, publicMessage(err), HTTPStatus(err))
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// fail answers a request that could not reach a controller.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	if status := HTTPStatus(err); status == http.StatusInternalServerError {
		log.Printf("[server] %s %s: %v", r.Method, r.URL.Path, err)
	}
	if wantsJSON(r) {
		s.errorResponse(w, HTTPStatus(err), publicMessage(err))
		return
	}
	http.Error(w, publicMessage(err), HTTPStatus(err))
}

// handleIndex renders the form.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	c, err := s.controller(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.render(w, c.Snapshot())
}

// handleState returns the JSON snapshot of the session's form.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	c, err := s.controller(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, c.Snapshot())
}

// handleProfile sets every posted scalar field. Unknown or image fields reject
// the whole request before anything changes.
func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	c, err := s.controller(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := r.ParseForm(); err != nil {
		s.fail(w, r, &ErrValidation{Field: "body", Message: err.Error()})
		return
	}

	for key := range r.PostForm {
		field, ok := types.ParseScalarField(key)
		if !ok || field.IsImage() {
			s.respond(w, r, c, &form.FieldError{Field: key})
			return
		}
	}

	for _, field := range types.ScalarFields {
		if !r.PostForm.Has(string(field)) {
			continue
		}
		if err := c.SetScalarField(field, r.PostForm.Get(string(field))); err != nil {
			s.respond(w, r, c, err)
			return
		}
	}
	s.respond(w, r, c, nil)
}

// handleImages captures profileImage and aboutImage from one multipart form.
// Either may be omitted; both are read concurrently.
func (s *Server) handleImages(w http.ResponseWriter, r *http.Request) {
	c, err := s.controller(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.parseMultipart(w, r); err != nil {
		s.respond(w, r, c, err)
		return
	}

	files := make(map[types.ScalarField]multipart.File)
	for _, target := range []types.ScalarField{types.FieldProfileImage, types.FieldAboutImage} {
		file, err := formFile(r, string(target))
		if err != nil {
			closeAll(files)
			s.respond(w, r, c, err)
			return
		}
		if file != nil {
			files[target] = file
		}
	}
	defer closeAll(files)

	g, ctx := errgroup.WithContext(r.Context())
	for target, file := range files {
		g.Go(func() error {
			return c.CaptureImage(ctx, target, file)
		})
	}
	s.respond(w, r, c, g.Wait())
}

// handleImage captures a single image posted as "file" into {target}.
func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	c, err := s.controller(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	target, ok := types.ParseScalarField(r.PathValue("target"))
	if !ok || !target.IsImage() {
		s.respond(w, r, c, &ErrValidation{Field: "target", Message: "image field"})
		return
	}
	if err := s.parseMultipart(w, r); err != nil {
		s.respond(w, r, c, err)
		return
	}

	file, err := formFile(r, "file")
	if err != nil {
		s.respond(w, r, c, err)
		return
	}
	if file == nil {
		s.respond(w, r, c, nil)
		return
	}
	defer func() { _ = file.Close() }()
	s.respond(w, r, c, c.CaptureImage(r.Context(), target, file))
}

func (s *Server) parseMultipart(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	if err := r.ParseMultipartForm(s.maxUpload); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return &ErrValidation{Field: "body", Message: "too large"}
		}
		return &ErrValidation{Field: "body", Message: "multipart form expected"}
	}
	return nil
}

func closeAll(files map[types.ScalarField]multipart.File) {
	for _, f := range files {
		_ = f.Close()
	}
}

// formFile returns the named upload, or nil when it was not sent.
func formFile(r *http.Request, name string) (multipart.File, error) {
	file, _, err := r.FormFile(name)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, &ErrValidation{Field: name, Message: err.Error()}
	}
	return file, nil
}

// handleEdits stores every text field posted by the form page.
func (s *Server) handleEdits(w http.ResponseWriter, r *http.Request) {
	c, err := s.controller(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, r, c, applyEdits(c, r))
}

// handleAddItem appends an empty item to {section}, after storing any text
// fields posted with it.
func (s *Server) handleAddItem(w http.ResponseWriter, r *http.Request) {
	c, err := s.controller(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	section, _, err := s.sectionFromPath(r, false)
	if err != nil {
		s.respond(w, r, c, err)
		return
	}
	if err := applyEdits(c, r); err != nil {
		s.respond(w, r, c, err)
		return
	}
	s.respond(w, r, c, c.AddItem(section))
}

// handleSetItem sets every posted field of item {index} in {section}.
func (s *Server) handleSetItem(w http.ResponseWriter, r *http.Request) {
	c, err := s.controller(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	section, index, err := s.sectionFromPath(r, true)
	if err != nil {
		s.respond(w, r, c, err)
		return
	}
	if err := r.ParseForm(); err != nil {
		s.respond(w, r, c, &ErrValidation{Field: "body", Message: err.Error()})
		return
	}

	item, err := types.NewItem(section)
	if err != nil {
		s.respond(w, r, c, err)
		return
	}
	for key := range r.PostForm {
		if _, ok := item.Field(key); !ok {
			s.respond(w, r, c, &form.FieldError{Section: section, Field: key})
			return
		}
	}
	for _, field := range item.FieldNames() {
		if !r.PostForm.Has(field) {
			continue
		}
		if err := c.SetSectionField(section, index, field, r.PostForm.Get(field)); err != nil {
			s.respond(w, r, c, err)
			return
		}
	}
	s.respond(w, r, c, nil)
}

// handleRemoveItem deletes item {index} from {section}. Posted text fields
// are stored first, using the indices the page was rendered with.
func (s *Server) handleRemoveItem(w http.ResponseWriter, r *http.Request) {
	c, err := s.controller(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	section, index, err := s.sectionFromPath(r, true)
	if err != nil {
		s.respond(w, r, c, err)
		return
	}
	if err := applyEdits(c, r); err != nil {
		s.respond(w, r, c, err)
		return
	}
	s.respond(w, r, c, c.RemoveItem(section, index))
}

// handleDismissNotice clears the active notice.
func (s *Server) handleDismissNotice(w http.ResponseWriter, r *http.Request) {
	c, err := s.controller(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	c.DismissNotice()
	s.respond(w, r, c, nil)
}

// handleSubmit stores any posted text fields, submits the form and, for HTML
// clients, redirects back so the outcome alert is rendered.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	c, err := s.controller(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := applyEdits(c, r); err != nil {
		s.respond(w, r, c, err)
		return
	}
	_, err = c.Submit(r.Context())
	s.respond(w, r, c, err)
}

// handleSubmitStream submits the form and reports progress as SSE "state"
// events followed by "complete".
func (s *Server) handleSubmitStream(w http.ResponseWriter, r *http.Request) {
	c, err := s.controller(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	if c.Status() == form.StatusSubmitting {
		sse.WriteError(form.ErrSubmitInProgress.Error())
		sse.WriteComplete(form.StatusSubmitting.String())
		return
	}

	sse.WriteState(form.StatusSubmitting.String(), "")
	_, err = c.Submit(r.Context())
	switch {
	case errors.Is(err, form.ErrSubmitInProgress):
		sse.WriteError(err.Error())
	case err != nil:
		sse.WriteState(form.StatusFailed.String(), form.SubmitFailureMessage)
	default:
		sse.WriteState(form.StatusSucceeded.String(), form.SubmitSuccessMessage)
	}
	sse.WriteComplete(c.Status().String())
}
