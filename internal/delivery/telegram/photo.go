package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/yourusername/bagshop-bot/internal/domain/constants"
	"github.com/yourusername/bagshop-bot/internal/usecase"
)

const photoDownloadTimeout = 20 * time.Second

// ErrPhotoTooLarge foto MaxPhotoSize dan katta
var ErrPhotoTooLarge = errors.New("photo exceeds size limit")

// photoInput fotoni faqat kerak bo'lganda yuklaydi (admin foto indeksi yuklamasdan ishlaydi)
func (h *BotHandler) photoInput(fileID string) *usecase.PhotoInput {
	return &usecase.PhotoInput{
		FileID: fileID,
		Fetch: func(ctx context.Context) ([]byte, error) {
			return h.downloadFile(ctx, fileID)
		},
	}
}

// downloadFile Telegram faylini link orqali yuklab olish
func (h *BotHandler) downloadFile(ctx context.Context, fileID string) ([]byte, error) {
	link, err := h.bot.GetFileDirectURL(fileID)
	if err != nil {
		return nil, fmt.Errorf("get file link: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return nil, err
	}
	resp, err := h.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download file: unexpected status %d", resp.StatusCode)
	}
	return readLimited(resp.Body, constants.MaxPhotoSize)
}

func readLimited(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, ErrPhotoTooLarge
	}
	return data, nil
}
