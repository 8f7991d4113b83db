// Package services provides external service integrations and technical concerns like notifications and tokens
package services

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/wenlng/go-captcha/v2/rotate"
	xdraw "golang.org/x/image/draw"
)

// CaptchaService guards the admin login with a rotate captcha.
//
// Flow:
// - GenerateRotate returns a challenge ID plus two base64 images (master and thumb)
// - VerifyRotate checks the user's rotation angle against the stored target within tolerance
// - Challenges live in memory with a TTL and are consumed on first verification attempt
type CaptchaService interface {
	GenerateRotate(ctx context.Context) (*RotateChallenge, error)
	VerifyRotate(ctx context.Context, challengeID string, userAngle float64) bool
}

type RotateChallenge struct {
	ID                string
	MasterImageBase64 string
	ThumbImageBase64  string
}

// ErrCaptchaUnavailable means the generator produced no usable challenge.
var ErrCaptchaUnavailable = errors.New("captcha is not available")

// rotateGenerator is the slice of rotate.Captcha this service needs.
type rotateGenerator interface {
	Generate() (rotate.CaptchaData, error)
}

type captchaServiceImpl struct {
	rotator rotateGenerator
	store   *challengeStore
	padding int // acceptable angle difference in degrees
}

// NewCaptchaServiceRotate constructs a CaptchaService using rotate mode.
// ttl bounds how long a challenge stays answerable; imgSizePx is the square
// size of the generated images.
func NewCaptchaServiceRotate(ttl time.Duration, padding int, imgSizePx int) (CaptchaService, error) {
	if imgSizePx <= 0 {
		imgSizePx = 220
	}

	builder := rotate.NewBuilder(
		rotate.WithImageSquareSize(imgSizePx),
	)
	builder.SetResources(
		rotate.WithImages(cardBackBackgrounds(3, imgSizePx)),
	)

	return &captchaServiceImpl{
		rotator: builder.Make(),
		store:   newChallengeStore(ttl),
		padding: padding,
	}, nil
}

func (s *captchaServiceImpl) GenerateRotate(ctx context.Context) (*RotateChallenge, error) {
	captData, err := s.rotator.Generate()
	if err != nil {
		return nil, err
	}

	block := captData.GetData()
	if block == nil {
		return nil, ErrCaptchaUnavailable
	}

	masterB64, err := captData.GetMasterImage().ToBase64()
	if err != nil {
		return nil, err
	}
	thumbB64, err := captData.GetThumbImage().ToBase64()
	if err != nil {
		return nil, err
	}

	challengeID := uuid.New().String()
	s.store.Put(challengeID, block.Angle)

	return &RotateChallenge{
		ID:                challengeID,
		MasterImageBase64: masterB64,
		ThumbImageBase64:  thumbB64,
	}, nil
}

func (s *captchaServiceImpl) VerifyRotate(ctx context.Context, challengeID string, userAngle float64) bool {
	targetAngle, ok := s.store.Take(challengeID)
	if !ok {
		return false
	}

	return rotate.Validate(int(math.Round(userAngle)), targetAngle, s.padding)
}

// challengeStore holds pending challenges in memory with a TTL. A challenge
// is consumed on its first verification attempt, pass or fail.
type challengeStore struct {
	mu  sync.Mutex
	m   map[string]challengeEntry
	ttl time.Duration
}

type challengeEntry struct {
	targetAngle int
	expiresAt   time.Time
}

func newChallengeStore(ttl time.Duration) *challengeStore {
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	cs := &challengeStore{
		m:   make(map[string]challengeEntry),
		ttl: ttl,
	}
	go cs.cleanupLoop()
	return cs
}

func (s *challengeStore) Put(id string, targetAngle int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[id] = challengeEntry{
		targetAngle: targetAngle,
		expiresAt:   time.Now().Add(s.ttl),
	}
}

// Take removes and returns the challenge, if still valid.
func (s *challengeStore) Take(id string) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.m[id]
	if !ok {
		return 0, false
	}
	delete(s.m, id)
	if time.Now().After(e.expiresAt) {
		return 0, false
	}
	return e.targetAngle, true
}

func (s *challengeStore) cleanupLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		now := time.Now()
		s.mu.Lock()
		for k, v := range s.m {
			if now.After(v.expiresAt) {
				delete(s.m, k)
			}
		}
		s.mu.Unlock()
	}
}

// cardBackBackgrounds renders simple gradient-and-stripe squares to rotate.
// Backgrounds are rendered at a fixed base resolution and resampled to the
// requested size so stripe spacing looks the same at any image size.
func cardBackBackgrounds(n int, size int) []image.Image {
	if n <= 0 {
		n = 1
	}
	const baseSize = 256
	imgs := make([]image.Image, 0, n)
	for i := 0; i < n; i++ {
		base := newStripedGradientImage(baseSize, baseSize)
		if size == baseSize {
			imgs = append(imgs, base)
			continue
		}
		scaled := image.NewRGBA(image.Rect(0, 0, size, size))
		xdraw.CatmullRom.Scale(scaled, scaled.Bounds(), base, base.Bounds(), xdraw.Over, nil)
		imgs = append(imgs, scaled)
	}
	return imgs
}

func newStripedGradientImage(w, h int) image.Image {
	rgba := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dx := float64(x - w/2)
			dy := float64(y - h/2)
			dist := math.Sqrt(dx*dx + dy*dy)
			t := dist / float64(w/2)
			if t > 1 {
				t = 1
			}
			base := uint8(210 - int(140*t))
			noise := uint8(rand.Intn(24))
			rgba.Set(x, y, color.RGBA{R: base, G: base + noise/4, B: 255 - base/3, A: 255})
		}
	}
	// diagonal stripes so rotation is visually obvious
	for i := -h; i < w; i += 24 {
		drawStripe(rgba, i, color.RGBA{R: 255, G: 255, B: 255, A: 28})
	}
	return rgba
}

func drawStripe(dst *image.RGBA, offset int, c color.RGBA) {
	bounds := dst.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		x := offset + y
		rect := image.Rect(x, y, x+6, y+1)
		draw.Draw(dst, rect, &image.Uniform{C: c}, image.Point{}, draw.Over)
	}
}
