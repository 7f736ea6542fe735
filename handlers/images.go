package handlers

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"net/url"

	"recipebook/images"
)

const thumbnailHeight = 500

// FetchImage fetches the image at ?url=, resizes it to a fixed height and
// returns it.
func (h *Handler) FetchImage(w http.ResponseWriter, r *http.Request) {
	imageURL := r.URL.Query().Get("url")
	if imageURL == "" {
		h.respondError(w, http.StatusBadRequest, "url parameter is required")
		return
	}
	u, err := url.Parse(imageURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		h.respondError(w, http.StatusBadRequest, "url must be an absolute http(s) URL")
		return
	}

	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, u.String(), nil)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid url")
		return
	}
	resp, err := h.httpClient.Do(req)
	if err != nil {
		h.respondError(w, http.StatusBadGateway, "failed to fetch image", err)
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		h.respondError(w, http.StatusBadGateway, "failed to fetch image")
		return
	}

	var buf bytes.Buffer
	body := io.LimitReader(resp.Body, images.MaxBytes+1)
	format, err := images.Thumbnail(&buf, body, thumbnailHeight)
	if err != nil {
		if errors.Is(err, images.ErrTooLarge) {
			h.respondError(w, http.StatusUnprocessableEntity, "image too large")
			return
		}
		if errors.Is(err, images.ErrUnsupportedFormat) {
			h.respondError(w, http.StatusUnsupportedMediaType, "unsupported image format")
			return
		}
		h.respondError(w, http.StatusUnprocessableEntity, "failed to decode image")
		return
	}

	w.Header().Set("Content-Type", "image/"+format)
	w.Write(buf.Bytes()) //nolint:errcheck
}
