// Package wizard implements the two-stage grievance submission wizard.
//
// Stage one collects title, description, category and sub-category.
// Stage two collects the detail fields resolved from the schema registry
// for that pair. Submit hands a single record to the Inserter.
package wizard

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"grievanceportal/backend/internal/apperr"
	"grievanceportal/backend/internal/models"
	"grievanceportal/backend/internal/schema"
)

const requiredText = "this field is required"

// Inserter persists a submitted grievance.
type Inserter interface {
	Insert(ctx context.Context, g *models.Grievance) error
}

// IdentityProvider yields the id of the authenticated user, or "".
type IdentityProvider interface {
	CurrentUserID(ctx context.Context) string
}

// IdentityFunc adapts a function to IdentityProvider.
type IdentityFunc func(ctx context.Context) string

func (f IdentityFunc) CurrentUserID(ctx context.Context) string { return f(ctx) }

// Basics is the stage one input. Category and sub-category are only
// applied when they differ from the current draft, so re-sending the
// same form does not wipe entered details.
type Basics struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	SubCategory string `json:"sub_category"`
}

// Pipeline is one user's wizard. It is safe for concurrent use; at most
// one Submit may be in flight.
type Pipeline struct {
	registry *schema.Registry
	inserter Inserter
	identity IdentityProvider

	mu       sync.Mutex
	state    State
	draft    Draft
	fields   []models.FieldDescriptor
	inFlight bool
	record   *models.Grievance
}

func New(registry *schema.Registry, inserter Inserter, identity IdentityProvider) *Pipeline {
	return &Pipeline{
		registry: registry,
		inserter: inserter,
		identity: identity,
		state:    StateCollectingBasics,
		draft:    Draft{Details: map[string]string{}},
	}
}

func (p *Pipeline) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Draft returns a copy of the current draft.
func (p *Pipeline) Draft() Draft {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.draft.clone()
}

// Fields returns the active detail schema. It is empty outside
// CollectingDetails.
func (p *Pipeline) Fields() []models.FieldDescriptor {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]models.FieldDescriptor(nil), p.fields...)
}

// Record returns the persisted grievance once Submitted.
func (p *Pipeline) Record() *models.Grievance {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.record
}

// expect must be called with p.mu held.
func (p *Pipeline) expect(want State) error {
	if p.inFlight {
		return apperr.Conflict("submission already in progress")
	}
	if p.state != want {
		return apperr.Conflict(fmt.Sprintf("wizard is %s, expected %s", p.state, want))
	}
	return nil
}

func (p *Pipeline) SetTitle(title string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.expect(StateCollectingBasics); err != nil {
		return err
	}
	p.draft = p.draft.withTitle(title)
	return nil
}

func (p *Pipeline) SetDescription(description string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.expect(StateCollectingBasics); err != nil {
		return err
	}
	p.draft = p.draft.withDescription(description)
	return nil
}

// SetCategory selects c and always clears the sub-category and details.
func (p *Pipeline) SetCategory(c models.Category) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.expect(StateCollectingBasics); err != nil {
		return err
	}
	if !p.registry.HasCategory(c) {
		return apperr.Validation("unknown category", apperr.FieldError{Field: "category", Error: fmt.Sprintf("%q is not a category", c)})
	}
	p.draft = p.draft.withCategory(c)
	return nil
}

// SetSubCategory selects sub within the current category and clears details.
func (p *Pipeline) SetSubCategory(sub string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.expect(StateCollectingBasics); err != nil {
		return err
	}
	if p.draft.Category == "" {
		return apperr.Validation("choose a category first", apperr.FieldError{Field: "category", Error: requiredText})
	}
	if !p.registry.HasSubCategory(p.draft.Category, sub) {
		return apperr.Validation("unknown sub-category", apperr.FieldError{
			Field: "sub_category",
			Error: fmt.Sprintf("%q is not a sub-category of %s", sub, p.draft.Category),
		})
	}
	p.draft = p.draft.withSubCategory(sub)
	return nil
}

// ApplyBasics sets every stage one field from b.
func (p *Pipeline) ApplyBasics(b Basics) error {
	if err := p.SetTitle(b.Title); err != nil {
		return err
	}
	if err := p.SetDescription(b.Description); err != nil {
		return err
	}

	current := p.Draft()
	if c := models.Category(b.Category); c != current.Category {
		if b.Category == "" {
			return apperr.Validation("category cannot be unset", apperr.FieldError{Field: "category", Error: requiredText})
		}
		if err := p.SetCategory(c); err != nil {
			return err
		}
		current = p.Draft()
	}
	if b.SubCategory != "" && b.SubCategory != current.SubCategory {
		return p.SetSubCategory(b.SubCategory)
	}
	return nil
}

// Next moves to CollectingDetails once every basic field is filled.
func (p *Pipeline) Next() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.expect(StateCollectingBasics); err != nil {
		return err
	}

	var missing []apperr.FieldError
	if blank(p.draft.Title) {
		missing = append(missing, apperr.FieldError{Field: "title", Error: requiredText})
	}
	if blank(p.draft.Description) {
		missing = append(missing, apperr.FieldError{Field: "description", Error: requiredText})
	}
	if p.draft.Category == "" {
		missing = append(missing, apperr.FieldError{Field: "category", Error: requiredText})
	}
	if p.draft.SubCategory == "" {
		missing = append(missing, apperr.FieldError{Field: "sub_category", Error: requiredText})
	}
	if len(missing) > 0 {
		return apperr.Validation("please fill in all basic fields", missing...)
	}

	p.fields = p.registry.ResolveFieldSchema(p.draft.Category, p.draft.SubCategory)
	p.draft = p.draft.withoutDetails()
	p.state = StateCollectingDetails
	return nil
}

// Back returns to CollectingBasics, keeping the basics and dropping details.
func (p *Pipeline) Back() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.expect(StateCollectingDetails); err != nil {
		return err
	}
	p.fields = nil
	p.draft = p.draft.withoutDetails()
	p.state = StateCollectingBasics
	return nil
}

// SetDetail records a value for a field of the active schema.
func (p *Pipeline) SetDetail(key, value string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.expect(StateCollectingDetails); err != nil {
		return err
	}

	field, ok := p.field(key)
	if !ok {
		return apperr.Validation("unknown detail field", apperr.FieldError{Field: key, Error: "not part of this form"})
	}

	value = strings.TrimSpace(value)
	if value != "" {
		switch field.Kind {
		case models.InputDate:
			if _, err := time.Parse(models.DateLayout, value); err != nil {
				return apperr.Validation("invalid date", apperr.FieldError{Field: key, Error: "must be a date in YYYY-MM-DD format"})
			}
		case models.InputSelect:
			if !field.HasOption(value) {
				return apperr.Validation("invalid option", apperr.FieldError{
					Field: key,
					Error: "must be one of: " + strings.Join(field.Options, ", "),
				})
			}
		}
	}

	p.draft = p.draft.withDetail(key, value)
	return nil
}

func (p *Pipeline) field(key string) (models.FieldDescriptor, bool) {
	for _, f := range p.fields {
		if f.Key == key {
			return f, true
		}
	}
	return models.FieldDescriptor{}, false
}

// Submit persists the draft. On an insert failure the pipeline stays in
// CollectingDetails and the collaborator's message is returned.
func (p *Pipeline) Submit(ctx context.Context) (*models.Grievance, error) {
	p.mu.Lock()
	if err := p.expect(StateCollectingDetails); err != nil {
		p.mu.Unlock()
		return nil, err
	}

	var missing []apperr.FieldError
	for _, f := range p.fields {
		if f.Required && blank(p.draft.Details[f.Key]) {
			missing = append(missing, apperr.FieldError{Field: f.Key, Error: requiredText})
		}
	}
	if len(missing) > 0 {
		p.mu.Unlock()
		return nil, apperr.Validation("please fill in all required fields", missing...)
	}

	userID := ""
	if p.identity != nil {
		userID = p.identity.CurrentUserID(ctx)
	}
	if userID == "" {
		p.mu.Unlock()
		return nil, apperr.Unauthenticated("user not authenticated")
	}

	record := p.assemble(userID)
	p.inFlight = true
	p.mu.Unlock()

	err := p.inserter.Insert(ctx, record)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.inFlight = false
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	p.state = StateSubmitted
	p.record = record
	return record, nil
}

// assemble must be called with p.mu held.
func (p *Pipeline) assemble(userID string) *models.Grievance {
	details := make(map[string]interface{}, len(p.fields)+1)
	for _, f := range p.fields {
		details[f.Key] = p.draft.Details[f.Key]
	}
	details[models.DetailsSubCategoryKey] = p.draft.SubCategory

	return &models.Grievance{
		SubmittedBy: userID,
		Title:       strings.TrimSpace(p.draft.Title),
		Description: strings.TrimSpace(p.draft.Description),
		Category:    p.draft.Category,
		Status:      models.StatusSubmitted,
		Details:     details,
	}
}

// Cancel abandons the draft from any non-terminal state.
func (p *Pipeline) Cancel() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.inFlight {
		return apperr.Conflict("submission already in progress")
	}
	if p.state.Terminal() {
		return apperr.Conflict(fmt.Sprintf("wizard is already %s", p.state))
	}
	p.state = StateCancelled
	p.fields = nil
	p.draft = Draft{Details: map[string]string{}}
	return nil
}
