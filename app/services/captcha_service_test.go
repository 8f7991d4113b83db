package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wenlng/go-captcha/v2/rotate"
)

// fakeRotateGenerator stands in for the rotate captcha builder output.
type fakeRotateGenerator struct {
	data rotate.CaptchaData
	err  error
}

func (f fakeRotateGenerator) Generate() (rotate.CaptchaData, error) {
	return f.data, f.err
}

func TestGenerateRotate(t *testing.T) {
	service, err := NewCaptchaServiceRotate(2*time.Minute, 15, 220)
	require.NoError(t, err)

	first, err := service.GenerateRotate(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)
	assert.NotEmpty(t, first.MasterImageBase64)
	assert.NotEmpty(t, first.ThumbImageBase64)

	second, err := service.GenerateRotate(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestGenerateRotateWithoutBlock(t *testing.T) {
	// A generator that yields data with no block must produce a real error,
	// never a (nil, nil) pair for the caller to dereference.
	service := &captchaServiceImpl{
		rotator: fakeRotateGenerator{data: &rotate.CaptData{}},
		store:   newChallengeStore(time.Minute),
		padding: 15,
	}

	challenge, err := service.GenerateRotate(context.Background())
	assert.ErrorIs(t, err, ErrCaptchaUnavailable)
	assert.Nil(t, challenge)
}

func TestGenerateRotateGeneratorError(t *testing.T) {
	service := &captchaServiceImpl{
		rotator: fakeRotateGenerator{err: errors.New("render failed")},
		store:   newChallengeStore(time.Minute),
		padding: 15,
	}

	challenge, err := service.GenerateRotate(context.Background())
	assert.Error(t, err)
	assert.Nil(t, challenge)
}

func TestVerifyRotateConsumesChallenge(t *testing.T) {
	service, err := NewCaptchaServiceRotate(2*time.Minute, 15, 220)
	require.NoError(t, err)

	challenge, err := service.GenerateRotate(context.Background())
	require.NoError(t, err)

	impl := service.(*captchaServiceImpl)
	impl.store.mu.Lock()
	entry, ok := impl.store.m[challenge.ID]
	impl.store.mu.Unlock()
	require.True(t, ok)

	assert.True(t, service.VerifyRotate(context.Background(), challenge.ID, float64(entry.targetAngle)))

	// A challenge only answers once, even with the right angle.
	assert.False(t, service.VerifyRotate(context.Background(), challenge.ID, float64(entry.targetAngle)))
}

func TestVerifyRotateWrongAngle(t *testing.T) {
	service, err := NewCaptchaServiceRotate(2*time.Minute, 15, 220)
	require.NoError(t, err)

	challenge, err := service.GenerateRotate(context.Background())
	require.NoError(t, err)

	impl := service.(*captchaServiceImpl)
	impl.store.mu.Lock()
	entry, ok := impl.store.m[challenge.ID]
	impl.store.mu.Unlock()
	require.True(t, ok)

	// Far outside the padding tolerance.
	assert.False(t, service.VerifyRotate(context.Background(), challenge.ID, float64(entry.targetAngle+90)))

	// The failed attempt consumed the challenge.
	assert.False(t, service.VerifyRotate(context.Background(), challenge.ID, float64(entry.targetAngle)))
}

func TestVerifyRotateUnknownChallenge(t *testing.T) {
	service, err := NewCaptchaServiceRotate(2*time.Minute, 15, 220)
	require.NoError(t, err)

	assert.False(t, service.VerifyRotate(context.Background(), "no-such-challenge", 42))
}

func TestChallengeStoreExpiry(t *testing.T) {
	store := newChallengeStore(50 * time.Millisecond)
	store.Put("soon-gone", 120)

	time.Sleep(100 * time.Millisecond)

	_, ok := store.Take("soon-gone")
	assert.False(t, ok)
}

func TestChallengeStoreTakeOnce(t *testing.T) {
	store := newChallengeStore(time.Minute)
	store.Put("one-shot", 75)

	angle, ok := store.Take("one-shot")
	require.True(t, ok)
	assert.Equal(t, 75, angle)

	_, ok = store.Take("one-shot")
	assert.False(t, ok)
}
