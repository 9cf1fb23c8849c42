package analytics

import (
	"errors"
	"fmt"

	"github.com/csd4487/vedema/internal/domain/models"
)

var (
	// ErrDuplicateLocation indicates two fields of one user share a location.
	ErrDuplicateLocation = errors.New("duplicate field location")
	// ErrFieldNotFound indicates a selected location has no field.
	ErrFieldNotFound = errors.New("field not found")
)

// Snapshot is a read-only, location-indexed view over a user's records.
type Snapshot struct {
	user       *models.User
	order      []string
	byLocation map[string]*models.Field
}

// NewSnapshot indexes the user's fields by location, keeping stored order.
func NewSnapshot(user *models.User) (*Snapshot, error) {
	if user == nil {
		return nil, errors.New("nil user snapshot")
	}

	s := &Snapshot{
		user:       user,
		order:      make([]string, 0, len(user.Fields)),
		byLocation: make(map[string]*models.Field, len(user.Fields)),
	}

	for i := range user.Fields {
		field := &user.Fields[i]
		if _, exists := s.byLocation[field.Location]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateLocation, field.Location)
		}
		s.byLocation[field.Location] = field
		s.order = append(s.order, field.Location)
	}

	return s, nil
}

// Locations returns field locations in stored order.
func (s *Snapshot) Locations() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Field looks up a field by location.
func (s *Snapshot) Field(location string) (*models.Field, bool) {
	f, ok := s.byLocation[location]
	return f, ok
}

// User returns the underlying user snapshot.
func (s *Snapshot) User() *models.User {
	return s.user
}

// selectFields resolves the walk order for a selection; empty means all.
func (s *Snapshot) selectFields(selected []string) ([]*models.Field, error) {
	if len(selected) == 0 {
		fields := make([]*models.Field, 0, len(s.order))
		for _, loc := range s.order {
			fields = append(fields, s.byLocation[loc])
		}
		return fields, nil
	}

	wanted := make(map[string]struct{}, len(selected))
	for _, loc := range selected {
		if _, ok := s.byLocation[loc]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrFieldNotFound, loc)
		}
		wanted[loc] = struct{}{}
	}

	// Walk in stored order so tie-breaks do not depend on the selection order.
	fields := make([]*models.Field, 0, len(wanted))
	for _, loc := range s.order {
		if _, ok := wanted[loc]; ok {
			fields = append(fields, s.byLocation[loc])
		}
	}
	return fields, nil
}
