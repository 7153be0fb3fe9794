package games

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chitchat/desktop/pkg/integrations/process"
)

func staticLister(names ...string) process.Lister {
	return process.ListerFunc(func(ctx context.Context) ([]string, error) {
		return names, nil
	})
}

func TestDetectorDetect(t *testing.T) {
	tests := []struct {
		name   string
		lister process.Lister
		opts   []Option
		want   Detection
	}{
		{
			name:   "known game",
			lister: staticLister("explorer.exe", "CS2.exe"),
			want:   Known("Counter-Strike 2", "cs2.exe"),
		},
		{
			name:   "unknown game when guessing enabled",
			lister: staticLister("explorer.exe", "cod-win64-shipping.exe"),
			opts:   []Option{WithUnknownGames(true)},
			want:   Unknown("cod-win64-shipping.exe", "Cod"),
		},
		{
			name:   "unknown game ignored when guessing disabled",
			lister: staticLister("explorer.exe", "cod-win64-shipping.exe"),
			want:   None(),
		},
		{
			name:   "known beats unknown",
			lister: staticLister("cod-win64-shipping.exe", "wow.exe"),
			opts:   []Option{WithUnknownGames(true)},
			want:   Known("World of Warcraft", "wow.exe"),
		},
		{
			name:   "nothing running",
			lister: staticLister(),
			opts:   []Option{WithUnknownGames(true)},
			want:   None(),
		},
		{
			name: "lister failure",
			lister: process.ListerFunc(func(ctx context.Context) ([]string, error) {
				return nil, errors.New("tasklist not found")
			}),
			opts: []Option{WithUnknownGames(true)},
			want: None(),
		},
		{
			name:   "custom catalog",
			lister: staticLister("mygame.exe"),
			opts:   []Option{WithCatalog([]CatalogEntry{{Executable: "mygame.exe", Title: "My Game"}})},
			want:   Known("My Game", "mygame.exe"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDetector(tt.lister, tt.opts...)
			assert.Equal(t, tt.want, d.Detect(context.Background()))
		})
	}
}

func TestDetectorNilLister(t *testing.T) {
	d := NewDetector(nil, WithUnknownGames(true))
	assert.True(t, d.Detect(context.Background()).IsNone())
}

func TestDetectionJSON(t *testing.T) {
	tests := []struct {
		name      string
		detection Detection
		want      string
	}{
		{"none", None(), `{"kind":"none"}`},
		{"known", Known("Dota 2", "dota2.exe"), `{"kind":"known","game":"Dota 2","executable":"dota2.exe"}`},
		{"unknown", Unknown("cod-win64-shipping.exe", "Cod"), `{"kind":"unknown","executable":"cod-win64-shipping.exe","suggested_name":"Cod"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.detection)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(data))
		})
	}
}

func TestDetectionDisplayName(t *testing.T) {
	assert.Equal(t, "", None().DisplayName())
	assert.Equal(t, "Dota 2", Known("Dota 2", "dota2").DisplayName())
	assert.Equal(t, "Cod", Unknown("cod.exe", "Cod").DisplayName())
	assert.True(t, Detection{}.IsNone())
	assert.False(t, Known("Dota 2", "dota2").IsNone())
}
