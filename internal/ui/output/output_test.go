package output_test

import (
	"bytes"
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"go.trai.ch/warren/internal/ui/output"
)

func TestColorProfile(t *testing.T) {
	// NO_COLOR forces the Ascii profile
	t.Setenv("NO_COLOR", "1")
	assert.Equal(t, termenv.Ascii, output.ColorProfile())

	// Without NO_COLOR the environment decides, so only the range is checked
	t.Setenv("NO_COLOR", "")
	p := output.ColorProfile()
	assert.True(t, p >= termenv.TrueColor && p <= termenv.Ascii, "should return a valid profile")
}

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	out := output.New(&buf)
	assert.NotNil(t, out)

	_, _ = out.WriteString("test")
	assert.Equal(t, "test", buf.String())
}

func TestNew_Nil(t *testing.T) {
	// Should default to stderr, we just check it doesn't panic
	out := output.New(nil)
	assert.NotNil(t, out)
}

func TestPaint(t *testing.T) {
	var buf bytes.Buffer

	plain := termenv.NewOutput(&buf, termenv.WithProfile(termenv.Ascii))
	assert.Equal(t, "ok", output.Paint(plain, "ok", "#22A06B"))

	colored := termenv.NewOutput(&buf, termenv.WithProfile(termenv.TrueColor))
	painted := output.Paint(colored, "ok", "#22A06B")
	assert.Contains(t, painted, "ok")
	assert.NotEqual(t, "ok", painted)
}
