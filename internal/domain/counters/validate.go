package counters

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrEmptyTeam reports a request without any enemy character.
var ErrEmptyTeam = errors.New("enemy team is empty: select at least one character")

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the request shape. An empty enemy team always yields ErrEmptyTeam.
func (r TeamRequest) Validate() error {
	if len(r.EnemyTeam) == 0 {
		return ErrEmptyTeam
	}
	return describe(validate.Struct(r))
}

// Validate checks a recommendation decoded from upstream.
func (r Recommendation) Validate() error {
	return describe(validate.Struct(r))
}

// describe flattens validator output into one readable error.
func describe(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
	}
	return errors.New(strings.Join(parts, "; "))
}
