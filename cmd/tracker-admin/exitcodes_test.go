package main

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/actiontracker/tracker/modules/tracker/domain/entities/actionitem"
	"github.com/actiontracker/tracker/modules/tracker/domain/entities/vendor"
	"github.com/actiontracker/tracker/modules/tracker/services"
	"github.com/actiontracker/tracker/modules/tracker/services/csvimport"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: exitOK},
		{name: "validation report", err: &csvimport.ValidationError{}, want: exitValidation},
		{name: "missing vendor", err: &csvimport.MissingVendorError{Prefix: "AD"}, want: exitValidation},
		{name: "joined unresolved users", err: errors.Join(&csvimport.UnresolvedUserError{Input: "x"}), want: exitValidation},
		{name: "bad input", err: &services.InvalidInputError{}, want: exitValidation},
		{name: "sequence", err: fmt.Errorf("%w: 3", services.ErrSequenceTooLow), want: exitValidation},
		{name: "unknown vendor", err: vendor.ErrNotFound, want: exitValidation},
		{name: "malformed id", err: fmt.Errorf("%w: x", actionitem.ErrMalformedID), want: exitUsage},
		{name: "rolled back", err: fmt.Errorf("%w: boom", csvimport.ErrRolledBack), want: exitDBWrite},
		{name: "already coded", err: withCode(exitUsage, errors.New("x")), want: exitUsage},
		{name: "driver", err: errors.New("connection reset"), want: exitDB},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, exitCode(classify(tc.err)), tc.name)
	}
}
