// Package repository implements domain repository interfaces using SQLite.
package repository

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"workhub/internal/domain"
)

func mapDBError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return &domain.NotFoundError{Message: "resource not found"}
	}
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return &domain.ConflictError{Message: "resource already exists"}
	}
	if strings.Contains(err.Error(), "FOREIGN KEY constraint failed") {
		return &domain.ValidationError{Message: "referenced resource does not exist"}
	}
	return domain.ErrStorage(err, "storage unavailable: %v", err)
}

// encodePermissions serializes a permission set as a sorted JSON array so
// stored rows are byte-stable for identical sets.
func encodePermissions(s domain.PermissionSet) (string, error) {
	raw, err := json.Marshal(s.Sorted())
	if err != nil {
		return "", fmt.Errorf("encode permissions: %w", err)
	}
	return string(raw), nil
}

func decodePermissions(raw string) (domain.PermissionSet, error) {
	var names []string
	if err := json.Unmarshal([]byte(raw), &names); err != nil {
		return nil, fmt.Errorf("decode permissions: %w", err)
	}
	s := make(domain.PermissionSet, len(names))
	for _, n := range names {
		s[domain.Permission(n)] = struct{}{}
	}
	return s, nil
}

// sqlPlaceholders returns "?, ?, ..." with n entries for IN clauses.
func sqlPlaceholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
