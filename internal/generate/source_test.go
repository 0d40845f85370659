// SPDX-License-Identifier: MPL-2.0

package generate

import (
	"errors"
	"testing"

	"github.com/blpembed/blpembed/internal/testutil"
	"github.com/blpembed/blpembed/pkg/catalog"
)

func TestCheckSource(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	testutil.MustWriteTree(t, root, map[string]string{
		"window.blp":       "",
		"dialogs/open.blp": "",
	})

	tests := []struct {
		key     string
		wantErr bool
	}{
		{key: "window.blp"},
		{key: "./window.blp"},
		{key: "dialogs/open.blp"},
		{key: "missing.blp", wantErr: true},
		{key: "dialogs", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Parallel()

			err := CheckSource(root, tt.key)
			if !tt.wantErr {
				if err != nil {
					t.Errorf("CheckSource(%q) error = %v", tt.key, err)
				}
				return
			}

			var srcErr *SourceNotFoundError
			if !errors.As(err, &srcErr) {
				t.Fatalf("CheckSource(%q) error = %v, want *SourceNotFoundError", tt.key, err)
			}
			if srcErr.Key != catalog.Normalize(tt.key) {
				t.Errorf("SourceNotFoundError.Key = %q", srcErr.Key)
			}
			if !errors.Is(err, ErrSourceNotFound) {
				t.Error("errors.Is(err, ErrSourceNotFound) = false")
			}
			if errors.Is(err, catalog.ErrKeyNotFound) {
				t.Error("missing source reported as a catalog key miss")
			}
		})
	}
}
