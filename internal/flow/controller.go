package flow

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"foodlog/internal/models"
)

// Flow errors.
var (
	ErrInvalidFileType   = errors.New("invalid file type: please select an image file")
	ErrInvalidImage      = errors.New("invalid image: mime type must start with image/")
	ErrTransitionIgnored = errors.New("action not available on the current screen")
	ErrNoPreview         = errors.New("no image selected")
	ErrClosed            = errors.New("session closed")
)

// Event types reported to the Observer.
const (
	EventStartCapture   = "START_CAPTURE"
	EventPreview        = "PREVIEW"
	EventInvalidFile    = "INVALID_FILE"
	EventSubmit         = "SUBMIT"
	EventComplete       = "COMPLETE"
	EventAnalysisFailed = "ANALYSIS_FAILED"
	EventSave           = "SAVE"
	EventHome           = "HOME"
)

// Toast copy.
const (
	msgInvalidFile    = "Please select an image file"
	msgSaved          = "Meal logged successfully!"
	msgSavedDetail    = "Your nutrition data has been saved."
	msgAnalysisFailed = "Could not analyze this photo"
	msgAnalysisRetry  = "Please try a different image."
)

// Event describes one thing that happened in a session.
type Event struct {
	SessionID string
	Type      string
	From      models.ScreenState
	To        models.ScreenState
	Image     *models.CapturedImage
	Detail    string
	// Seq numbers the events of one session in the order they were applied.
	Seq uint64
}

// Observer receives events after the Controller has released its lock, one
// at a time and in Seq order. Observe must not call back into the Controller.
type Observer interface {
	Observe(ev Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ev Event)

func (f ObserverFunc) Observe(ev Event) { f(ev) }

// Options configures a Controller. Zero values fall back to defaults.
type Options struct {
	Timings  Timings
	Phases   []string
	Analyzer Analyzer
	Observer Observer
}

// Controller is the screen state machine of one scan session. It is the
// single writer of the screen and the captured image. Every timer it starts
// remembers the epoch it was started in and does nothing once the screen
// has been left.
type Controller struct {
	mu     sync.Mutex
	emitMu sync.Mutex
	seq    uint64

	id       string
	timings  Timings
	phases   []string
	analyzer Analyzer
	observer Observer
	notes    *notifier

	ctx    context.Context
	cancel context.CancelFunc

	screen    models.ScreenState
	epoch     uint64
	preview   *models.CapturedImage
	image     models.CapturedImage
	results   *Results
	closed    bool
	updatedAt time.Time

	anim       *Animation
	completion *time.Timer
	saveTimer  *time.Timer
}

// NewController returns a Controller on the Home screen.
func NewController(id string, opts Options) *Controller {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		id:        id,
		timings:   opts.Timings.withDefaults(),
		phases:    opts.Phases,
		analyzer:  opts.Analyzer,
		observer:  opts.Observer,
		notes:     newNotifier(),
		ctx:       ctx,
		cancel:    cancel,
		screen:    models.ScreenHome,
		updatedAt: time.Now().UTC(),
	}
	if len(c.phases) == 0 {
		c.phases = Phases
	}
	if c.analyzer == nil {
		c.analyzer = StaticAnalyzer{}
	}
	return c
}

// ID returns the session id.
func (c *Controller) ID() string { return c.id }

// Screen returns the current screen.
func (c *Controller) Screen() models.ScreenState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.screen
}

// StartCapture moves Home, Capture or Results to Capture and drops the
// captured image. Ignored while processing.
func (c *Controller) StartCapture() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	from := c.screen
	if from == models.ScreenProcessing {
		c.mu.Unlock()
		return ErrTransitionIgnored
	}
	c.image = models.CapturedImage{}
	c.moveLocked(models.ScreenCapture)
	c.unlockAndEmit(Event{Type: EventStartCapture, From: from, To: models.ScreenCapture})
	return nil
}

// NewScan starts another capture from the results screen.
func (c *Controller) NewScan() error {
	return c.StartCapture()
}

// ReturnHome moves any screen to Home and drops the captured image.
func (c *Controller) ReturnHome() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	from := c.screen
	c.image = models.CapturedImage{}
	c.moveLocked(models.ScreenHome)
	c.unlockAndEmit(Event{Type: EventHome, From: from, To: models.ScreenHome})
}

// ProcessFile validates f and decodes it into a preview in the background.
// A nil file is a no-op. The returned channel yields the published preview
// once, or closes empty when the capture screen was left before the decode
// finished.
func (c *Controller) ProcessFile(f *ImageFile) (<-chan models.CapturedImage, error) {
	out := make(chan models.CapturedImage, 1)
	if f == nil {
		close(out)
		return out, nil
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrClosed
	}
	if c.screen != models.ScreenCapture {
		c.mu.Unlock()
		return nil, ErrTransitionIgnored
	}
	mimeType := f.MimeType()
	if !IsImageMime(mimeType) {
		c.notes.push(models.LevelError, msgInvalidFile, "")
		c.unlockAndEmit(Event{Type: EventInvalidFile, From: models.ScreenCapture, To: models.ScreenCapture, Detail: mimeType})
		return nil, fmt.Errorf("%w (got %q)", ErrInvalidFileType, mimeType)
	}
	epoch := c.epoch
	c.mu.Unlock()

	go func() {
		defer close(out)
		img := encodeImage(f, mimeType)
		if c.publishPreview(epoch, img) {
			out <- img
		}
	}()
	return out, nil
}

// publishPreview stores img unless the capture screen it was started on is gone.
func (c *Controller) publishPreview(epoch uint64, img models.CapturedImage) bool {
	c.mu.Lock()
	if c.closed || c.epoch != epoch || c.screen != models.ScreenCapture {
		c.mu.Unlock()
		return false
	}
	c.preview = &img
	c.updatedAt = time.Now().UTC()
	c.unlockAndEmit(Event{Type: EventPreview, From: models.ScreenCapture, To: models.ScreenCapture, Image: &img})
	return true
}

// ClearPreview discards the current preview ("choose different").
func (c *Controller) ClearPreview() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if c.screen != models.ScreenCapture {
		return ErrTransitionIgnored
	}
	c.preview = nil
	c.updatedAt = time.Now().UTC()
	return nil
}

// Analyze submits the current preview.
func (c *Controller) Analyze() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.screen != models.ScreenCapture {
		c.mu.Unlock()
		return ErrTransitionIgnored
	}
	if c.preview == nil {
		c.mu.Unlock()
		return ErrNoPreview
	}
	img := *c.preview
	if err := c.submitLocked(img); err != nil {
		c.mu.Unlock()
		return err
	}
	c.unlockAndEmit(Event{Type: EventSubmit, From: models.ScreenCapture, To: models.ScreenProcessing, Image: &img})
	return nil
}

// SubmitImage moves Capture to Processing with img as the captured image.
func (c *Controller) SubmitImage(img models.CapturedImage) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.screen != models.ScreenCapture {
		c.mu.Unlock()
		return ErrTransitionIgnored
	}
	if err := c.submitLocked(img); err != nil {
		c.mu.Unlock()
		return err
	}
	c.unlockAndEmit(Event{Type: EventSubmit, From: models.ScreenCapture, To: models.ScreenProcessing, Image: &img})
	return nil
}

func (c *Controller) submitLocked(img models.CapturedImage) error {
	if !IsImageMime(img.MimeType) {
		return fmt.Errorf("%w (got %q)", ErrInvalidImage, img.MimeType)
	}
	c.moveLocked(models.ScreenProcessing)
	c.image = img
	return nil
}

// CompleteProcessing moves Processing to Results. The completion timer
// calls it on its own; calling it by hand settles the same transition.
func (c *Controller) CompleteProcessing() error {
	c.mu.Lock()
	epoch := c.epoch
	c.mu.Unlock()
	return c.complete(epoch)
}

// complete runs the analyzer outside the lock and applies its result only
// if the processing screen of epoch is still current.
func (c *Controller) complete(epoch uint64) error {
	c.mu.Lock()
	if !c.currentLocked(epoch, models.ScreenProcessing) {
		c.mu.Unlock()
		return ErrTransitionIgnored
	}
	img := c.image
	c.mu.Unlock()

	ingredients, aerr := c.analyzer.Analyze(c.ctx, img)

	c.mu.Lock()
	if !c.currentLocked(epoch, models.ScreenProcessing) {
		c.mu.Unlock()
		return ErrTransitionIgnored
	}
	if aerr != nil {
		c.image = models.CapturedImage{}
		c.moveLocked(models.ScreenCapture)
		c.notes.push(models.LevelError, msgAnalysisFailed, msgAnalysisRetry)
		c.unlockAndEmit(Event{Type: EventAnalysisFailed, From: models.ScreenProcessing, To: models.ScreenCapture, Detail: aerr.Error()})
		return fmt.Errorf("analyze image: %w", aerr)
	}
	c.moveLocked(models.ScreenResults)
	c.results = newResults(img, ingredients)
	totals := c.results.Totals
	c.unlockAndEmit(Event{
		Type:   EventComplete,
		From:   models.ScreenProcessing,
		To:     models.ScreenResults,
		Image:  &img,
		Detail: fmt.Sprintf("%d ingredients, %.0f kcal", len(ingredients), totals.Calories),
	})
	return nil
}

// Results returns a copy of what the results screen shows.
func (c *Controller) Results() (*Results, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.screen != models.ScreenResults || c.results == nil {
		return nil, ErrTransitionIgnored
	}
	out := *c.results
	out.Ingredients = append([]models.IngredientRecord(nil), c.results.Ingredients...)
	return &out, nil
}

// Save confirms the meal and returns Home after the save delay. Nothing is
// persisted.
func (c *Controller) Save() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.screen != models.ScreenResults || c.saveTimer != nil {
		c.mu.Unlock()
		return ErrTransitionIgnored
	}
	epoch := c.epoch
	c.saveTimer = time.AfterFunc(c.timings.SaveDelay, func() { c.homeAfterSave(epoch) })
	c.updatedAt = time.Now().UTC()
	c.notes.push(models.LevelSuccess, msgSaved, msgSavedDetail)
	c.unlockAndEmit(Event{Type: EventSave, From: models.ScreenResults, To: models.ScreenResults})
	return nil
}

func (c *Controller) homeAfterSave(epoch uint64) {
	c.mu.Lock()
	if !c.currentLocked(epoch, models.ScreenResults) {
		c.mu.Unlock()
		return
	}
	c.saveTimer = nil
	c.image = models.CapturedImage{}
	c.moveLocked(models.ScreenHome)
	c.unlockAndEmit(Event{Type: EventHome, From: models.ScreenResults, To: models.ScreenHome, Detail: "after save"})
}

// Snapshot returns the current session view.
func (c *Controller) Snapshot() models.SessionSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := models.SessionSnapshot{
		ID:                   c.id,
		Screen:               c.screen,
		Saving:               c.saveTimer != nil,
		PendingNotifications: c.notes.pending(),
		UpdatedAt:            c.updatedAt,
	}
	if c.preview != nil {
		p := *c.preview
		snap.Preview = &p
	}
	if !c.image.IsEmpty() {
		img := c.image
		snap.Image = &img
	}
	if c.anim != nil {
		p := c.anim.Progress()
		snap.Progress = &p
	}
	return snap
}

// Notifications drains queued toast messages.
func (c *Controller) Notifications() []models.Notification {
	return c.notes.drain()
}

// Subscribe streams toast messages as they are raised.
func (c *Controller) Subscribe() (<-chan models.Notification, func()) {
	return c.notes.subscribe()
}

// Close releases every timer. Later calls to the Controller are ignored.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.teardownLocked()
	c.epoch++
	c.image = models.CapturedImage{}
	c.mu.Unlock()

	c.cancel()
	c.notes.closeAll()
}

// moveLocked tears down the current screen and enters next.
func (c *Controller) moveLocked(next models.ScreenState) {
	c.teardownLocked()
	c.epoch++
	c.screen = next
	c.updatedAt = time.Now().UTC()
	if next == models.ScreenProcessing {
		c.enterProcessingLocked()
	}
}

// teardownLocked stops everything owned by the current screen.
func (c *Controller) teardownLocked() {
	if c.anim != nil {
		c.anim.Stop()
		c.anim = nil
	}
	if c.completion != nil {
		c.completion.Stop()
		c.completion = nil
	}
	if c.saveTimer != nil {
		c.saveTimer.Stop()
		c.saveTimer = nil
	}
	c.preview = nil
	c.results = nil
}

func (c *Controller) enterProcessingLocked() {
	c.anim = StartAnimation(c.ctx, c.timings, c.phases)
	epoch := c.epoch
	c.completion = time.AfterFunc(c.timings.ProcessingDelay, func() {
		_ = c.complete(epoch)
	})
}

func (c *Controller) currentLocked(epoch uint64, screen models.ScreenState) bool {
	return !c.closed && c.epoch == epoch && c.screen == screen
}

// unlockAndEmit numbers ev, releases c.mu and hands ev to the observer.
// emitMu is taken before c.mu is released so deliveries keep the order in
// which the transitions were applied.
func (c *Controller) unlockAndEmit(ev Event) {
	c.seq++
	ev.Seq = c.seq
	ev.SessionID = c.id
	c.emitMu.Lock()
	c.mu.Unlock()
	defer c.emitMu.Unlock()

	if c.observer != nil {
		c.observer.Observe(ev)
	}
}
