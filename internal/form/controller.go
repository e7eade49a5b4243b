package form

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/mbcet/alumnimeet/internal/models"
)

// State is a step of the submission lifecycle.
type State int

const (
	StateEditing State = iota
	StateValidating
	StateSubmitting
	StateSucceeded
	StateFailed
)

var stateNames = [...]string{"editing", "validating", "submitting", "succeeded", "failed"}

func (s State) String() string {
	if int(s) < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return stateNames[s]
}

func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

type OutcomeKind string

const (
	OutcomeIdle    OutcomeKind = "idle"
	OutcomeSuccess OutcomeKind = "success"
	OutcomeFailure OutcomeKind = "failure"
)

// Outcome is the result of the last submission as shown to the visitor.
type Outcome struct {
	Kind   OutcomeKind `json:"kind"`
	Reason string      `json:"reason,omitempty"`
}

const MsgSubmitFailed = "Failed to submit. Please try again."

// Reasons passed to Hooks.Ignored when a submit is dropped.
var (
	ErrSubmitInFlight   = errors.New("submit already in flight")
	ErrAlreadySubmitted = errors.New("registration already submitted")
)

// Event is a visitor action consumed by Controller.Dispatch.
type Event interface{ event() }

type (
	SetField struct {
		Name  string
		Value string
	}
	ToggleContribution  struct{ Token string }
	SetConsent          struct{ Checked bool }
	SetAttendingEvent   struct{ Checked bool }
	Submit              struct{}
	DismissConfirmation struct{}
	DismissNotice       struct{}

	storeResult struct {
		id        string
		err       error
		attending bool
	}
)

func (SetField) event()            {}
func (ToggleContribution) event()  {}
func (SetConsent) event()          {}
func (SetAttendingEvent) event()   {}
func (Submit) event()              {}
func (DismissConfirmation) event() {}
func (DismissNotice) event()       {}
func (storeResult) event()         {}

// RecordStore persists one registration and returns its id. Creation and
// update timestamps are assigned by the store.
type RecordStore interface {
	CreateRecord(ctx context.Context, rec models.Registration) (string, error)
}

// FollowUp holds the links offered on the confirmation view.
type FollowUp struct {
	WhatsappGroupURL string
	StayConnectedURL string
	EventDate        string
}

var DefaultFollowUp = FollowUp{
	WhatsappGroupURL: "https://chat.whatsapp.com/YOUR_GROUP_LINK",
	StayConnectedURL: "https://your-website.com/stay-connected",
	EventDate:        "27th December",
}

// Confirmation is the content of the success view.
type Confirmation struct {
	RecordID  string `json:"recordId"`
	Attending bool   `json:"attending"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	LinkURL   string `json:"linkUrl"`
	LinkLabel string `json:"linkLabel"`
}

func confirmationFor(id string, attending bool, fu FollowUp) *Confirmation {
	if attending {
		return &Confirmation{
			RecordID:  id,
			Attending: true,
			Title:     "Registration Successful!",
			Message:   "Thank you for registering! See you on " + fu.EventDate + ".",
			LinkURL:   fu.WhatsappGroupURL,
			LinkLabel: "Click to join WhatsApp group",
		}
	}
	return &Confirmation{
		RecordID:  id,
		Title:     "Thank You!",
		Message:   "Thank you for sharing your details! We'll keep you posted on future events and opportunities.",
		LinkURL:   fu.StayConnectedURL,
		LinkLabel: "Stay Connected",
	}
}

// Hooks observe lifecycle transitions. They run outside the controller lock;
// nil hooks are skipped.
type Hooks struct {
	Invalid   func(errs ErrorMap)
	Ignored   func(reason error)
	Submitted func(ctx context.Context, id string, rec models.Registration)
	Failed    func(err error)
}

// View is everything the presentation layer needs to render the form.
type View struct {
	Fields       FieldSet      `json:"fields"`
	Errors       ErrorMap      `json:"errors"`
	Visibility   Visibility    `json:"visibility"`
	State        State         `json:"state"`
	Outcome      Outcome       `json:"outcome"`
	Notice       string        `json:"notice,omitempty"`
	Confirmation *Confirmation `json:"confirmation,omitempty"`
}

type ControllerOption func(*Controller)

func WithVariant(v Variant) ControllerOption { return func(c *Controller) { c.variant = v } }

func WithFollowUp(fu FollowUp) ControllerOption { return func(c *Controller) { c.followUp = fu } }

func WithLogger(l zerolog.Logger) ControllerOption { return func(c *Controller) { c.log = l } }

func WithHooks(h Hooks) ControllerOption { return func(c *Controller) { c.hooks = h } }

// WithStoreTimeout bounds the record store call. Zero means no bound.
func WithStoreTimeout(d time.Duration) ControllerOption { return func(c *Controller) { c.timeout = d } }

// Controller owns one visitor's form session. All state changes go through
// Dispatch; it is safe for concurrent use.
type Controller struct {
	store    RecordStore
	variant  Variant
	followUp FollowUp
	log      zerolog.Logger
	hooks    Hooks
	timeout  time.Duration

	mu           sync.Mutex
	fields       FieldSet
	errors       ErrorMap
	state        State
	notice       string
	confirmation *Confirmation
}

func New(store RecordStore, opts ...ControllerOption) *Controller {
	c := &Controller{
		store:    store,
		variant:  Variant{AttendanceToggle: true},
		followUp: DefaultFollowUp,
		log:      zerolog.Nop(),
		fields:   Defaults(),
		errors:   ErrorMap{},
		state:    StateEditing,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) Variant() Variant { return c.variant }

// View snapshots the current state. Visibility is derived on every call.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := View{
		Fields:     c.fields.Clone(),
		Errors:     c.errors.Clone(),
		Visibility: VisibilityOf(c.fields, c.variant),
		State:      c.state,
		Notice:     c.notice,
	}
	switch c.state {
	case StateSucceeded:
		v.Outcome = Outcome{Kind: OutcomeSuccess}
	case StateFailed:
		v.Outcome = Outcome{Kind: OutcomeFailure, Reason: c.notice}
	default:
		v.Outcome = Outcome{Kind: OutcomeIdle}
	}
	if c.confirmation != nil {
		conf := *c.confirmation
		v.Confirmation = &conf
	}
	return v
}

func (c *Controller) SetField(name, value string) { c.Dispatch(context.Background(), SetField{name, value}) }

func (c *Controller) ToggleContribution(token string) {
	c.Dispatch(context.Background(), ToggleContribution{token})
}

func (c *Controller) SetConsent(checked bool) { c.Dispatch(context.Background(), SetConsent{checked}) }

func (c *Controller) SetAttendingEvent(checked bool) {
	c.Dispatch(context.Background(), SetAttendingEvent{checked})
}

func (c *Controller) Submit(ctx context.Context) State { return c.Dispatch(ctx, Submit{}) }

func (c *Controller) DismissConfirmation() { c.Dispatch(context.Background(), DismissConfirmation{}) }

func (c *Controller) DismissNotice() { c.Dispatch(context.Background(), DismissNotice{}) }

// Dispatch applies ev and returns the resulting state. A valid Submit blocks
// until the record store answers; the store call is not cancelled by ctx.
func (c *Controller) Dispatch(ctx context.Context, ev Event) State {
	eff, state := c.step(ev)

	switch {
	case eff.ignored != nil:
		c.log.Debug().Err(eff.ignored).Stringer("state", state).Msg("submit ignored")
		if c.hooks.Ignored != nil {
			c.hooks.Ignored(eff.ignored)
		}
	case eff.invalid != nil:
		c.log.Info().Strs("fields", eff.invalid.Fields()).Msg("validation failed")
		if c.hooks.Invalid != nil {
			c.hooks.Invalid(eff.invalid)
		}
	case eff.record != nil:
		state = c.create(ctx, *eff.record)
	}
	return state
}

// step applies ev under the lock. The deferred unlock keeps the controller
// usable after apply panics on a programming error.
func (c *Controller) step(ev Event) (effect, State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	eff := c.apply(ev)
	return eff, c.state
}

type effect struct {
	record  *models.Registration
	invalid ErrorMap
	ignored error
}

// apply is the only place that mutates controller state. Callers hold mu.
func (c *Controller) apply(ev Event) effect {
	switch e := ev.(type) {
	case SetField:
		c.fields.set(e.Name, e.Value)
		delete(c.errors, e.Name)

	case ToggleContribution:
		if !IsContribution(e.Token) {
			panic(fmt.Sprintf("form: unknown contribution %q", e.Token))
		}
		c.fields.toggleContribution(e.Token)
		delete(c.errors, FieldContributions)

	case SetConsent:
		c.fields.Consent = e.Checked
		delete(c.errors, FieldConsent)

	case SetAttendingEvent:
		if !c.variant.AttendanceToggle {
			panic("form: attendance toggle is not part of this form variant")
		}
		c.fields.AttendingEvent = e.Checked
		delete(c.errors, FieldAttendingEvent)

	case Submit:
		switch c.state {
		case StateSubmitting:
			return effect{ignored: ErrSubmitInFlight}
		case StateSucceeded:
			return effect{ignored: ErrAlreadySubmitted}
		}
		c.state = StateValidating
		c.notice = ""
		c.errors = Validate(c.fields, c.variant)
		if len(c.errors) > 0 {
			c.state = StateEditing
			return effect{invalid: c.errors.Clone()}
		}
		rec := Record(c.fields, c.variant)
		c.state = StateSubmitting
		return effect{record: &rec}

	case storeResult:
		if e.err != nil {
			c.notice = MsgSubmitFailed
			c.state = StateFailed
			return effect{}
		}
		c.fields = Defaults()
		c.errors = ErrorMap{}
		c.notice = ""
		c.confirmation = confirmationFor(e.id, e.attending, c.followUp)
		c.state = StateSucceeded

	case DismissConfirmation:
		if c.state == StateSucceeded {
			c.confirmation = nil
			c.state = StateEditing
		}

	case DismissNotice:
		if c.state == StateFailed {
			c.notice = ""
			c.state = StateEditing
		}

	default:
		panic(fmt.Sprintf("form: unhandled event %T", ev))
	}
	return effect{}
}

func (c *Controller) create(ctx context.Context, rec models.Registration) State {
	base := context.WithoutCancel(ctx)
	callCtx := base
	if c.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(base, c.timeout)
		defer cancel()
	}

	c.log.Info().Bool("attending", rec.AttendingEvent).Msg("sending registration to record store")
	id, err := c.store.CreateRecord(callCtx, rec)

	_, state := c.step(storeResult{id: id, err: err, attending: rec.AttendingEvent})

	if err != nil {
		c.log.Error().Err(err).Msg("record store rejected registration")
		if c.hooks.Failed != nil {
			c.hooks.Failed(err)
		}
		return state
	}
	c.log.Info().Str("record_id", id).Msg("registration stored")
	if c.hooks.Submitted != nil {
		c.hooks.Submitted(base, id, rec)
	}
	return state
}

// MergeHooks returns Hooks that call each non-nil hook of hs in order.
func MergeHooks(hs ...Hooks) Hooks {
	var out Hooks
	for _, h := range hs {
		if h.Invalid != nil {
			prev, next := out.Invalid, h.Invalid
			out.Invalid = func(e ErrorMap) {
				if prev != nil {
					prev(e)
				}
				next(e)
			}
		}
		if h.Ignored != nil {
			prev, next := out.Ignored, h.Ignored
			out.Ignored = func(reason error) {
				if prev != nil {
					prev(reason)
				}
				next(reason)
			}
		}
		if h.Submitted != nil {
			prev, next := out.Submitted, h.Submitted
			out.Submitted = func(ctx context.Context, id string, rec models.Registration) {
				if prev != nil {
					prev(ctx, id, rec)
				}
				next(ctx, id, rec)
			}
		}
		if h.Failed != nil {
			prev, next := out.Failed, h.Failed
			out.Failed = func(err error) {
				if prev != nil {
					prev(err)
				}
				next(err)
			}
		}
	}
	return out
}
