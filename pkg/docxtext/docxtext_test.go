package docxtext

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractRejectsMalformedDocument(t *testing.T) {
	_, err := Extract([]byte("this is not a zip archive"))
	require.Error(t, err)
}

func TestExtractRejectsEmptyInput(t *testing.T) {
	_, err := Extract(nil)
	require.Error(t, err)
}
