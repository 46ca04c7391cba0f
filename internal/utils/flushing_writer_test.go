package utils_test

import (
	"bufio"
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/forksweep/internal/utils"
)

func TestFlushingWriterFlushesBufferedDestination(testInstance *testing.T) {
	underlying := &bytes.Buffer{}
	buffered := bufio.NewWriterSize(underlying, 4096)

	writer := utils.NewFlushingWriter(buffered)
	bytesWritten, writeError := writer.Write([]byte("[1/2] Deleted: a\n"))
	require.NoError(testInstance, writeError)
	require.Equal(testInstance, 17, bytesWritten)
	require.Equal(testInstance, "[1/2] Deleted: a\n", underlying.String())
}

func TestNewFlushingWriterEdgeCases(testInstance *testing.T) {
	require.Equal(testInstance, io.Discard, utils.NewFlushingWriter(nil))

	wrapped := utils.NewFlushingWriter(&bytes.Buffer{})
	require.Same(testInstance, wrapped, utils.NewFlushingWriter(wrapped))
}
