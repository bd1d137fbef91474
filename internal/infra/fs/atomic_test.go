package fs

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFileAtomic(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		data    []byte
		setupFS func(fs afero.Fs) error
		wantErr bool
	}{
		{
			name:    "Write new file creating directories",
			path:    "/home/user/deetodo/tasks.json",
			data:    []byte(`[]`),
			setupFS: func(fs afero.Fs) error { return nil },
		},
		{
			name: "Overwrite existing file",
			path: "/data/tasks.json",
			data: []byte(`[{"text":"new"}]`),
			setupFS: func(fs afero.Fs) error {
				return afero.WriteFile(fs, "/data/tasks.json", []byte(`old`), 0o644)
			},
		},
		{
			name: "Read-only filesystem",
			path: "/ro/tasks.json",
			data: []byte(`[]`),
			setupFS: func(fs afero.Fs) error {
				return nil
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var fs afero.Fs = afero.NewMemMapFs()
			require.NoError(t, tt.setupFS(fs))
			if tt.wantErr {
				fs = afero.NewReadOnlyFs(fs)
			}

			err := WriteFileAtomic(fs, tt.path, tt.data, 0o644)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			got, err := afero.ReadFile(fs, tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.data, got)

			// no temp files left behind
			entries, err := afero.ReadDir(fs, filepath.Dir(tt.path))
			require.NoError(t, err)
			for _, e := range entries {
				assert.NotContains(t, e.Name(), ".tmp-")
			}
		})
	}
}
