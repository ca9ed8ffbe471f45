package fallback_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/notifykit/pkg/fallback"
)

type mockJournal struct {
	mock.Mock
}

func (m *mockJournal) Append(ctx context.Context, rec fallback.Record) error {
	return m.Called(ctx, rec).Error(0)
}

func (m *mockJournal) List(ctx context.Context) ([]fallback.Record, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]fallback.Record), args.Error(1)
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    fallback.Format
		wantErr bool
	}{
		{in: "", want: fallback.FormatJSON},
		{in: "json", want: fallback.FormatJSON},
		{in: "JSON", want: fallback.FormatJSON},
		{in: "yaml", want: fallback.FormatYAML},
		{in: " yml ", want: fallback.FormatYAML},
		{in: "csv", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, err := fallback.ParseFormat(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, fallback.ErrUnknownFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	assert.Equal(t, "yaml", fallback.FormatYAML.Extension())
	assert.Equal(t, "application/json", fallback.FormatJSON.ContentType())
}

func TestExport_JSON(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	j := fallback.NewMemoryJournal()
	require.NoError(t, j.Append(ctx, record(1)))
	require.NoError(t, j.Append(ctx, record(2)))

	var buf bytes.Buffer
	require.NoError(t, fallback.Export(ctx, j, &buf, fallback.FormatJSON))

	var got []fallback.Record
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "patient1@example.com", got[0].Recipient)
	assert.Equal(t, "patient2@example.com", got[1].Recipient)
}

func TestExport_YAML(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	j := fallback.NewMemoryJournal()
	require.NoError(t, j.Append(ctx, record(1)))

	var buf bytes.Buffer
	require.NoError(t, fallback.Export(ctx, j, &buf, fallback.FormatYAML))
	assert.Contains(t, buf.String(), "recipient: patient1@example.com")
	assert.Contains(t, buf.String(), "status: stored_locally")

	var got []map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "timeout", got[0]["reason"])
}

func TestExport_EmptyJournal(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, fallback.Export(context.Background(), fallback.NewMemoryJournal(), &buf, fallback.FormatJSON))
	assert.JSONEq(t, "[]", buf.String())
}

func TestExport_Errors(t *testing.T) {
	t.Parallel()

	j := &mockJournal{}
	j.On("List", mock.Anything).Return(nil, errors.New("backend down")).Once()

	var buf bytes.Buffer
	err := fallback.Export(context.Background(), j, &buf, fallback.FormatJSON)
	assert.ErrorIs(t, err, fallback.ErrExportFailed)
	j.AssertExpectations(t)

	err = fallback.Export(context.Background(), fallback.NewMemoryJournal(), &buf, fallback.Format("xml"))
	assert.ErrorIs(t, err, fallback.ErrExportFailed)
	assert.ErrorIs(t, err, fallback.ErrUnknownFormat)
}
