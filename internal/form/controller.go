// Package form owns the state of one resume form: scalar profile fields, the
// ordered section lists, and the submission lifecycle. All mutations go
// through the Controller's methods.
package form

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/jonathan/resume-form/internal/imagecapture"
	"github.com/jonathan/resume-form/internal/schemas"
	"github.com/jonathan/resume-form/internal/types"
)

// User-facing messages.
const (
	IncompleteItemMessage = "Please fill out the current item before adding a new one."
	SubmitSuccessMessage  = "Form submitted successfully!"
	SubmitFailureMessage  = "Form submission failed. Please try again."
)

// DefaultNoticeDuration is how long a warning notice stays visible.
const DefaultNoticeDuration = 4 * time.Second

// Submitter delivers a payload to the resume service.
type Submitter interface {
	SubmitResume(ctx context.Context, employeeID string, payload *types.SubmissionPayload) error
}

// Status is the submission state of a form.
type Status int

// Submission states. A new attempt always starts from whatever state the
// previous one left behind.
const (
	StatusIdle Status = iota
	StatusSubmitting
	StatusSucceeded
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusSubmitting:
		return "submitting"
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// MarshalText encodes the status by name.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Severity classifies a notice.
type Severity string

// SeverityWarning is used for policy violations such as an incomplete item.
const SeverityWarning Severity = "warning"

// Notice is a transient message that disappears at ExpiresAt.
type Notice struct {
	Message   string    `json:"message"`
	Severity  Severity  `json:"severity"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Options configures a Controller.
type Options struct {
	NoticeDuration time.Duration
	Image          *imagecapture.Options
	Now            func() time.Time
}

// State is a deep copy of a controller's state for rendering.
type State struct {
	Profile  types.ScalarProfile      `json:"profile"`
	Sections types.ResumeSections     `json:"sections"`
	Status   Status                   `json:"status"`
	Notice   *Notice                  `json:"notice,omitempty"`
	Payload  *types.SubmissionPayload `json:"payload,omitempty"`
}

// Loading reports whether a submission is in flight.
func (s State) Loading() bool { return s.Status == StatusSubmitting }

// Succeeded reports whether the last submission succeeded.
func (s State) Succeeded() bool { return s.Status == StatusSucceeded }

// Failed reports whether the last submission failed.
func (s State) Failed() bool { return s.Status == StatusFailed }

// Controller is the resume form state machine. It is safe for concurrent use;
// each method is one state transition.
type Controller struct {
	mu          sync.Mutex
	profile     types.ScalarProfile
	sections    types.ResumeSections
	status      Status
	notice      *Notice
	lastPayload *types.SubmissionPayload

	submitter      Submitter
	noticeDuration time.Duration
	imageOpts      *imagecapture.Options
	now            func() time.Time
}

// New creates an empty form that submits through submitter.
func New(submitter Submitter, opts *Options) *Controller {
	if opts == nil {
		opts = &Options{}
	}
	c := &Controller{
		submitter:      submitter,
		noticeDuration: opts.NoticeDuration,
		imageOpts:      opts.Image,
		now:            opts.Now,
	}
	if c.noticeDuration <= 0 {
		c.noticeDuration = DefaultNoticeDuration
	}
	if c.now == nil {
		c.now = time.Now
	}
	return c
}

// SetScalarField replaces one scalar field unconditionally.
func (c *Controller) SetScalarField(field types.ScalarField, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.profile.Set(field, value); err != nil {
		return &FieldError{Field: string(field)}
	}
	return nil
}

// SetSectionField sets one field of the item at index in section. The index
// must already exist.
func (c *Controller) SetSectionField(section types.SectionName, index int, field, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	items, err := c.items(section)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(items) {
		return &IndexError{Section: section, Index: index, Len: len(items)}
	}
	if err := items[index].SetField(field, value); err != nil {
		return &FieldError{Section: section, Field: field}
	}
	return c.sections.Replace(section, items)
}

// AddItem appends an empty item to section. It refuses, and raises a warning
// notice, while the current last item has every field empty.
func (c *Controller) AddItem(section types.SectionName) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	items, err := c.items(section)
	if err != nil {
		return err
	}
	if n := len(items); n > 0 && items[n-1].IsEmpty() {
		c.notice = &Notice{
			Message:   IncompleteItemMessage,
			Severity:  SeverityWarning,
			ExpiresAt: c.now().Add(c.noticeDuration),
		}
		return ErrIncompleteItem
	}

	item, err := types.NewItem(section)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrUnknownSection, section)
	}
	return c.sections.Replace(section, append(items, item))
}

// RemoveItem deletes the item at index from section; later items shift left.
// An out-of-range index is rejected.
func (c *Controller) RemoveItem(section types.SectionName, index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	items, err := c.items(section)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(items) {
		return &IndexError{Section: section, Index: index, Len: len(items)}
	}

	kept := make([]types.SectionItem, 0, len(items)-1)
	kept = append(kept, items[:index]...)
	kept = append(kept, items[index+1:]...)
	return c.sections.Replace(section, kept)
}

// items returns copies of the items of a known section.
func (c *Controller) items(section types.SectionName) ([]types.SectionItem, error) {
	if _, err := types.ParseSectionName(string(section)); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSection, section)
	}
	return c.sections.Items(section), nil
}

// CaptureImage reads an image into a data URL and stores it in target, which
// must be an image field. A nil file is a no-op. On failure the field keeps
// its previous value.
func (c *Controller) CaptureImage(ctx context.Context, target types.ScalarField, file io.Reader) error {
	if !target.IsImage() {
		return &FieldError{Field: string(target)}
	}
	if file == nil {
		return nil
	}

	dataURL, err := imagecapture.Capture(ctx, file, c.imageOpts)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.profile.Set(target, dataURL)
}

// CaptureImageAsync runs CaptureImage on its own goroutine and delivers its
// result on the returned channel.
func (c *Controller) CaptureImageAsync(ctx context.Context, target types.ScalarField, file io.Reader) <-chan error {
	out := make(chan error, 1)
	go func() {
		out <- c.CaptureImage(ctx, target, file)
		close(out)
	}()
	return out
}

// Submit assembles the payload and sends it. It returns the payload that was
// attempted (nil if none was built) and, on failure, an error wrapping
// ErrSubmitFailed. The detailed cause is logged.
func (c *Controller) Submit(ctx context.Context) (*types.SubmissionPayload, error) {
	c.mu.Lock()
	if c.status == StatusSubmitting {
		c.mu.Unlock()
		return nil, ErrSubmitInProgress
	}
	c.status = StatusSubmitting
	payload := BuildPayload(c.profile, c.sections)
	c.lastPayload = payload
	employeeID := c.profile.EmployeeID
	c.mu.Unlock()

	err := c.send(ctx, employeeID, payload)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.status = StatusFailed
		log.Printf("[form] An error occurred during form submission for employee %q: %v", employeeID, err)
		return payload, fmt.Errorf("%w: %w", ErrSubmitFailed, err)
	}
	c.status = StatusSucceeded
	log.Printf("[form] Form submitted successfully for employee %q (%s)", employeeID, summarize(payload))
	return payload, nil
}

func (c *Controller) send(ctx context.Context, employeeID string, payload *types.SubmissionPayload) error {
	if c.submitter == nil {
		return errors.New("no submitter configured")
	}
	if err := schemas.ValidatePayload(payload); err != nil {
		return fmt.Errorf("payload does not match schema: %w", err)
	}
	return c.submitter.SubmitResume(ctx, employeeID, payload)
}

// Status returns the current submission state.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// ActiveNotice returns the current notice, or nil if none is showing.
func (c *Controller) ActiveNotice() *Notice {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.activeNotice()
}

func (c *Controller) activeNotice() *Notice {
	if c.notice == nil || !c.now().Before(c.notice.ExpiresAt) {
		return nil
	}
	n := *c.notice
	return &n
}

// DismissNotice hides the current notice before it expires.
func (c *Controller) DismissNotice() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notice = nil
}

// LastPayload returns the most recently assembled payload, if any.
func (c *Controller) LastPayload() *types.SubmissionPayload {
	c.mu.Lock()
	defer c.mu.Unlock()
	return clonePayload(c.lastPayload)
}

// Snapshot returns a deep copy of the form state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{
		Profile:  c.profile,
		Sections: c.sections.Clone(),
		Status:   c.status,
		Notice:   c.activeNotice(),
		Payload:  clonePayload(c.lastPayload),
	}
}

func clonePayload(p *types.SubmissionPayload) *types.SubmissionPayload {
	if p == nil {
		return nil
	}
	out := *p
	out.AboutData.Highlights = append([]string(nil), p.AboutData.Highlights...)
	out.ResumeData = p.ResumeData.Clone()
	return &out
}

func summarize(p *types.SubmissionPayload) string {
	r := p.ResumeData
	return fmt.Sprintf("education=%d workHistory=%d skills=%d projects=%d interests=%d highlights=%d",
		len(r.Education), len(r.WorkHistory), len(r.Skills), len(r.ProjectDetails), len(r.InterestsDetails),
		len(p.AboutData.Highlights))
}
