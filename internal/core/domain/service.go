package domain

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

var (
	ErrServiceNotFound = errors.New("service not found")
	ErrServiceExists   = errors.New("service already exists")
	ErrInvalidService  = errors.New("invalid service")
)

// Service is an organisational unit a dossier can be imputed to. Dossiers
// reference services by ID only; a service can disappear while still referenced.
type Service struct {
	ID          string `json:"id" bson:"_id"`
	Name        string `json:"name" bson:"name"`
	Description string `json:"description" bson:"description"`
}

// ServiceCode derives a service identifier from its name: the first two
// letters of every word upper-cased, then a two-digit suffix.
// "Contrôle Technique", 7 -> "COTE-07".
func ServiceCode(name string, suffix int) string {
	var b strings.Builder
	for _, word := range strings.Fields(name) {
		n := 0
		for i, w := 0, 0; i < len(word) && n < 2; i += w {
			var r rune
			r, w = utf8.DecodeRuneInString(word[i:])
			b.WriteString(strings.ToUpper(string(r)))
			n++
		}
	}
	return fmt.Sprintf("%s-%02d", b.String(), ((suffix%100)+100)%100)
}

// ServiceLabel returns the display name for a referenced service, falling
// back to the raw identifier when the service no longer exists.
func ServiceLabel(id string, s *Service) string {
	if s == nil || s.Name == "" {
		return id
	}
	return s.Name
}

// DefaultServices is the catalog installed on an empty store.
func DefaultServices() []Service {
	return []Service{
		{ID: "CT-01", Name: "Contrôle Technique", Description: "Contrôle technique des installations"},
		{ID: "SN-02", Name: "Sûreté Nucléaire", Description: "Évaluation de la sûreté nucléaire"},
		{ID: "RP-03", Name: "Radioprotection", Description: "Protection contre les rayonnements ionisants"},
		{ID: "SE-04", Name: "Sécurité Nucléaire", Description: "Sécurité physique des matières et installations"},
	}
}
