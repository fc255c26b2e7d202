package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	require.NoError(t, err)
	return parsed
}

func TestRefUnmarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantID   string
		wantName string
		wantErr  bool
	}{
		{
			name:   "голый идентификатор строкой",
			input:  `"cat123"`,
			wantID: "cat123",
		},
		{
			name:     "объект после populate",
			input:    `{"_id":"cat123","name":"Алгоритмы"}`,
			wantID:   "cat123",
			wantName: "Алгоритмы",
		},
		{
			name:   "объект без имени",
			input:  `{"_id":"cat123"}`,
			wantID: "cat123",
		},
		{
			name:    "объект без идентификатора",
			input:   `{"name":"Алгоритмы"}`,
			wantErr: true,
		},
		{
			name:    "число вместо ссылки",
			input:   `42`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ref Ref
			err := json.Unmarshal([]byte(tt.input), &ref)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, ref.ID)
			assert.Equal(t, tt.wantName, ref.Name)
		})
	}
}

func TestRefMarshalJSON(t *testing.T) {
	data, err := json.Marshal(Ref{ID: "cat123", Name: "Алгоритмы"})

	require.NoError(t, err)
	// При записи бекенд принимает только голый идентификатор.
	assert.Equal(t, `"cat123"`, string(data))
}

func TestProductUnmarshal_MixedRefShapes(t *testing.T) {
	input := `{
		"_id": "p1",
		"name": "Go Course",
		"promptLimit": 100,
		"accessPeriodDays": 30,
		"pages": ["pg1", {"_id":"pg2","name":"Basics"}],
		"category": [{"_id":"cat1","name":"Programming"}, "cat2"]
	}`

	var p Product
	require.NoError(t, json.Unmarshal([]byte(input), &p))

	assert.Equal(t, []string{"pg1", "pg2"}, RefIDs(p.Pages))
	assert.Equal(t, []string{"cat1", "cat2"}, RefIDs(p.Categories))
	assert.Equal(t, "Basics", p.Pages[1].Name)
}

func TestProductAccessExpired(t *testing.T) {
	now := mustParse(t, "2025-06-15T12:00:00Z")

	tests := []struct {
		name    string
		endDate string
		want    bool
	}{
		{name: "дата в прошлом", endDate: "2025-06-15T11:00:00Z", want: true},
		{name: "дата ровно сейчас", endDate: "2025-06-15T12:00:00Z", want: true},
		{name: "дата в будущем", endDate: "2025-06-15T13:00:00Z", want: false},
		{name: "без даты — бессрочный", endDate: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pa := ProductAccess{ProductID: "p1", IsActive: true}
			if tt.endDate != "" {
				end := mustParse(t, tt.endDate)
				pa.EndDate = &end
			}
			assert.Equal(t, tt.want, pa.Expired(now))
		})
	}
}
