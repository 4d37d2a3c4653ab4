package diag

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nomi-lang/nomic/internal/source"
)

func TestRecorderAccumulatesRecords(t *testing.T) {
	rec := NewRecorder(nil, false)
	require.False(t, rec.HasErrors())

	rec.ReportError(source.Invalid(), UnrecognizedCharacter, "bad byte 0x%x", 0xFF)
	require.True(t, rec.HasErrors())
	require.Len(t, rec.Records(), 1)
	require.Equal(t, UnrecognizedCharacter, rec.Records()[0].Kind)
	require.Equal(t, "bad byte 0xff", rec.Records()[0].Message)
}

func TestRecorderCapturesCallStackWhenEnabled(t *testing.T) {
	rec := NewRecorder(nil, true)
	rec.ReportError(source.Invalid(), UnterminatedString, "eof")
	require.NotEmpty(t, rec.Records()[0].Stack)
}

func TestRecorderErrJoinsRecords(t *testing.T) {
	rec := NewRecorder(nil, false)
	require.NoError(t, rec.Err())

	rec.ReportError(source.Invalid(), MalformedBOM, "bad bom")
	rec.ReportError(source.Invalid(), UnterminatedComment, "unterminated")
	err := rec.Err()
	require.Error(t, err)
	require.Contains(t, err.Error(), "bad bom")
	require.Contains(t, err.Error(), "unterminated")
}

func TestRecorderReset(t *testing.T) {
	rec := NewRecorder(nil, false)
	rec.ReportError(source.Invalid(), MalformedBOM, "x")
	require.True(t, rec.HasErrors())
	rec.Reset()
	require.False(t, rec.HasErrors())
}
