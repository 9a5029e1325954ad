package extraction

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLazyRecognizer_InitializesOnce(t *testing.T) {
	var inits atomic.Int32
	stub := &StubRecognizer{Entities: []Entity{{Group: "SKILL", Word: "Go"}}}
	lazy := NewLazyRecognizer(func() (EntityRecognizer, error) {
		inits.Add(1)
		return stub, nil
	})

	assert.EqualValues(t, 0, inits.Load())

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			entities, err := lazy.Recognize(context.Background(), "Go")
			assert.NoError(t, err)
			assert.Len(t, entities, 1)
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, inits.Load())
	assert.EqualValues(t, 10, stub.Calls())
}

func TestLazyRecognizer_RemembersFailure(t *testing.T) {
	var inits atomic.Int32
	cause := errors.New("weights not found")
	lazy := NewLazyRecognizer(func() (EntityRecognizer, error) {
		inits.Add(1)
		return nil, cause
	})

	for i := 0; i < 3; i++ {
		_, err := lazy.Recognize(context.Background(), "text")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrModelUnavailable))
		assert.True(t, errors.Is(err, cause))
	}
	assert.EqualValues(t, 1, inits.Load())
	assert.NoError(t, lazy.Close())
}

func TestLazyRecognizer_NilRecognizer(t *testing.T) {
	lazy := NewLazyRecognizer(func() (EntityRecognizer, error) { return nil, nil })

	_, err := lazy.Recognize(context.Background(), "text")
	assert.True(t, errors.Is(err, ErrModelUnavailable))
}

func TestLazyRecognizer_ClosesBackend(t *testing.T) {
	client := &fakeLLMClient{response: `{"entities": []}`}
	lazy := NewLazyRecognizer(func() (EntityRecognizer, error) {
		return NewLLMRecognizer(client), nil
	})

	_, err := lazy.Recognize(context.Background(), "text")
	require.NoError(t, err)
	require.NoError(t, lazy.Close())
	assert.True(t, client.closed)
}

func TestLazyRecognizer_CloseBeforeUse(t *testing.T) {
	var inits atomic.Int32
	lazy := NewLazyRecognizer(func() (EntityRecognizer, error) {
		inits.Add(1)
		return &StubRecognizer{}, nil
	})

	require.NoError(t, lazy.Close())

	_, err := lazy.Recognize(context.Background(), "text")
	assert.True(t, errors.Is(err, ErrModelUnavailable))
	assert.EqualValues(t, 0, inits.Load())
}

func TestLazyRecognizer_CloseDuringInit(t *testing.T) {
	client := &fakeLLMClient{response: `{"entities": []}`}
	started := make(chan struct{})
	release := make(chan struct{})
	lazy := NewLazyRecognizer(func() (EntityRecognizer, error) {
		close(started)
		<-release
		return NewLLMRecognizer(client), nil
	})

	done := make(chan error, 1)
	go func() {
		_, err := lazy.Recognize(context.Background(), "text")
		done <- err
	}()
	<-started

	closed := make(chan error, 1)
	go func() { closed <- lazy.Close() }()
	close(release)

	require.NoError(t, <-done)
	require.NoError(t, <-closed)
	assert.True(t, client.closed)
}
