package kafka

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	messages, err := encode([]Event{
		{Key: "run-1", Value: map[string]string{"query": "search fox"}},
		{Key: "run-1", Value: 42},
	})
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "run-1", string(messages[0].Key))
	assert.JSONEq(t, `{"query":"search fox"}`, string(messages[0].Value))
	assert.Equal(t, "42", string(messages[1].Value))
}

func TestEncode_Unmarshalable(t *testing.T) {
	_, err := encode([]Event{{Key: "k", Value: make(chan int)}})
	assert.Error(t, err)
}
