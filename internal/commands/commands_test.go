package commands

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		line string
		args []string
		ok   bool
	}{
		{"cmd next -portal doorway", []string{"next", "-portal", "doorway"}, true},
		{"cmd   fps  ", []string{"fps"}, true},
		{"cmd ", nil, true},
		{"next", nil, false},
		{"CMD next", nil, false},
	}
	for _, tt := range tests {
		args, ok := Parse(tt.line)
		assert.Equal(t, tt.ok, ok, tt.line)
		assert.Equal(t, tt.args, args, tt.line)
	}
}

func TestLine(t *testing.T) {
	assert.Equal(t, "cmd next", Line("next"))
	assert.Equal(t, "cmd next", Line("  cmd next "))
	assert.Equal(t, "cmd", Line("cmd"))
	args, ok := Parse(Line("side -to B"))
	assert.True(t, ok)
	assert.Equal(t, []string{"side", "-to", "B"}, args)
}

type fakeControls struct {
	calls []string
	fps   bool
	err   error
}

func (f *fakeControls) NextDestination(p string) (string, error) {
	f.calls = append(f.calls, "next "+p)
	return "desert-gate", f.err
}

func (f *fakeControls) SetSide(p, side string) error {
	f.calls = append(f.calls, "side "+p+" "+side)
	return f.err
}

func (f *fakeControls) FlipSide(p string) error {
	f.calls = append(f.calls, "flip "+p)
	return f.err
}

func (f *fakeControls) SetArmed(p string, armed bool) error {
	if armed {
		f.calls = append(f.calls, "arm "+p)
	} else {
		f.calls = append(f.calls, "disarm "+p)
	}
	return f.err
}

func (f *fakeControls) ToggleFPS() bool {
	f.fps = !f.fps
	return f.fps
}

func registry(c Controls) (*Registry, *[]string) {
	var out []string
	r := NewRegistry()
	RegisterPortal(r, c, "doorway", func(s string) { out = append(out, s) })
	return r, &out
}

func TestPortalCommands(t *testing.T) {
	c := &fakeControls{}
	r, out := registry(c)
	assert.Equal(t, []string{"arm", "fps", "next", "side"}, r.Names())

	require.NoError(t, r.Execute([]string{"next"}))
	require.NoError(t, r.Execute([]string{"next", "-portal", "attic"}))
	require.NoError(t, r.Execute([]string{"side", "-to", "b"}))
	require.NoError(t, r.Execute([]string{"side"}))
	require.NoError(t, r.Execute([]string{"arm", "-off"}))
	require.NoError(t, r.Execute([]string{"arm"}))
	require.NoError(t, r.Execute([]string{"fps"}))

	assert.Equal(t, []string{
		"next doorway", "next attic", "side doorway b", "flip doorway", "disarm doorway", "arm doorway",
	}, c.calls)
	assert.Equal(t, "doorway now leads to desert-gate", (*out)[0])
	assert.Equal(t, "doorway entrance set to B", (*out)[2])
	assert.Equal(t, "FPS counter on", (*out)[len(*out)-1])
}

func TestExecuteErrors(t *testing.T) {
	c := &fakeControls{err: errors.New("boom")}
	r, _ := registry(c)

	assert.Error(t, r.Execute(nil))
	err := r.Execute([]string{"warp"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown command")

	err = r.Execute([]string{"next", "-nope"})
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "next:"))

	assert.EqualError(t, r.Execute([]string{"next"}), "boom")
}

func TestConsolePoll(t *testing.T) {
	c := NewConsole(strings.NewReader("cmd next\ncmd fps\n"), 4)
	var got []string
	assert.Eventually(t, func() bool {
		got = append(got, c.Poll()...)
		return len(got) == 2
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"cmd next", "cmd fps"}, got)
}
