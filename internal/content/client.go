// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/taibuivan/mushaf/internal/locator"
	"github.com/taibuivan/mushaf/internal/platform/constants"
)

// maxPages bounds pagination so a misbehaving provider cannot loop forever.
// 286 verses at the smallest sensible page size fit well inside it.
const maxPages = 64

var (
	footnoteMarkup = regexp.MustCompile(`(?s)<sup[^>]*>.*?</sup>`)
	anyMarkup      = regexp.MustCompile(`<[^>]+>`)
)

// errMalformed marks a response body that could not be decoded.
var errMalformed = errors.New("malformed response body")

// HTTPClient implements [Client] over the provider's REST API.
type HTTPClient struct {
	baseURL    string
	options    Options
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// ClientConfig configures an [HTTPClient].
type ClientConfig struct {
	BaseURL string
	Options Options
	Timeout time.Duration
	// RPS paces outbound requests. Zero or negative disables pacing.
	RPS float64
}

// NewHTTPClient constructs an [HTTPClient], filling unset options with defaults.
func NewHTTPClient(cfg ClientConfig, logger *slog.Logger) *HTTPClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = constants.DefaultContentAPIURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.Options.Locale == "" {
		cfg.Options.Locale = "en"
	}
	if cfg.Options.Script == "" {
		cfg.Options.Script = ScriptUthmani
	}
	if cfg.Options.PageSize <= 0 {
		cfg.Options.PageSize = 50
	}

	limit := rate.Inf
	if cfg.RPS > 0 {
		limit = rate.Limit(cfg.RPS)
	}

	return &HTTPClient{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		options:    cfg.Options,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(limit, 1),
		logger:     logger,
	}
}

// Options returns the effective request options.
func (c *HTTPClient) Options() Options {
	return c.options
}

// # Chapters

type chaptersResponse struct {
	Chapters []struct {
		ID              int    `json:"id"`
		RevelationPlace string `json:"revelation_place"`
		NameSimple      string `json:"name_simple"`
		NameComplex     string `json:"name_complex"`
		NameArabic      string `json:"name_arabic"`
		VersesCount     int    `json:"verses_count"`
	} `json:"chapters"`
}

// Chapters implements [Client].
func (c *HTTPClient) Chapters(ctx context.Context) ([]Chapter, error) {
	query := url.Values{}
	query.Set("language", c.options.Locale)

	var body chaptersResponse
	status, err := c.get(ctx, "/chapters", query, &body)
	if err != nil {
		return nil, &FetchError{Op: "chapters", Status: status, Err: err}
	}

	chapters := make([]Chapter, 0, len(body.Chapters))
	for _, raw := range body.Chapters {
		chapters = append(chapters, Chapter{
			ID:              raw.ID,
			NativeName:      raw.NameArabic,
			ComplexName:     raw.NameComplex,
			SimpleName:      raw.NameSimple,
			VerseCount:      raw.VersesCount,
			RevelationPlace: raw.RevelationPlace,
		})
	}

	c.logger.DebugContext(ctx, "chapters_fetched", slog.Int("count", len(chapters)))
	return chapters, nil
}

// # Verses

type versesResponse struct {
	Verses []struct {
		VerseNumber  int    `json:"verse_number"`
		VerseKey     string `json:"verse_key"`
		JuzNumber    int    `json:"juz_number"`
		PageNumber   int    `json:"page_number"`
		TextUthmani  string `json:"text_uthmani"`
		TextIndopak  string `json:"text_indopak"`
		TextImlaei   string `json:"text_imlaei"`
		Translations []struct {
			Text string `json:"text"`
		} `json:"translations"`
		Audio *struct {
			URL string `json:"url"`
		} `json:"audio"`
	} `json:"verses"`
	Pagination struct {
		CurrentPage int  `json:"current_page"`
		NextPage    *int `json:"next_page"`
	} `json:"pagination"`
}

// versePath maps a locator to the provider's endpoint.
// The provider names the division scheme "juz".
func versePath(loc locator.Locator) string {
	segment := "by_chapter"
	switch loc.Mode {
	case locator.ModeDivision:
		segment = "by_juz"
	case locator.ModePage:
		segment = "by_page"
	}
	return "/verses/" + segment + "/" + strconv.Itoa(loc.ID)
}

// Verses implements [Client]. It follows pagination until the provider
// reports no further page and returns the concatenation.
func (c *HTTPClient) Verses(ctx context.Context, loc locator.Locator) (*Sequence, error) {
	fail := func(status int, err error) error {
		target := loc
		return &FetchError{Op: "verses", Locator: &target, Status: status, Err: err}
	}

	if !loc.Valid() {
		return nil, fail(0, locator.ErrOutOfRange)
	}

	var verses []Verse
	page := 1
	for fetched := 0; ; fetched++ {
		if fetched == maxPages {
			return nil, fail(0, fmt.Errorf("pagination exceeded %d pages", maxPages))
		}

		var body versesResponse
		status, err := c.get(ctx, versePath(loc), c.verseQuery(page), &body)
		if err != nil {
			return nil, fail(status, err)
		}

		for _, raw := range body.Verses {
			key, err := locator.ParseVerseKey(raw.VerseKey)
			if err != nil {
				return nil, fail(status, fmt.Errorf("%w: %v", errMalformed, err))
			}

			verse := Verse{
				Key:         key.String(),
				Chapter:     key.Chapter,
				Number:      raw.VerseNumber,
				PrimaryText: c.pickScript(raw.TextUthmani, raw.TextIndopak, raw.TextImlaei),
				Division:    raw.JuzNumber,
				Page:        raw.PageNumber,
			}
			if verse.Number == 0 {
				verse.Number = key.Verse
			}
			if len(raw.Translations) > 0 {
				verse.AlternateText = cleanTranslation(raw.Translations[0].Text)
			}
			if raw.Audio != nil {
				verse.AudioURL = raw.Audio.URL
			}
			verses = append(verses, verse)
		}

		if body.Pagination.NextPage == nil || *body.Pagination.NextPage <= page {
			break
		}
		page = *body.Pagination.NextPage
	}

	c.logger.DebugContext(ctx, "verses_fetched",
		slog.String("locator", loc.String()),
		slog.Int("count", len(verses)),
	)
	return NewSequence(loc, verses), nil
}

func (c *HTTPClient) verseQuery(page int) url.Values {
	query := url.Values{}
	query.Set("language", c.options.Locale)
	query.Set("words", "false")
	query.Set("fields", c.options.Script)
	if c.options.TranslationID > 0 {
		query.Set("translations", strconv.Itoa(c.options.TranslationID))
	}
	if c.options.RecitationID > 0 {
		query.Set("audio", strconv.Itoa(c.options.RecitationID))
	}
	query.Set("per_page", strconv.Itoa(c.options.PageSize))
	query.Set("page", strconv.Itoa(page))
	return query
}

func (c *HTTPClient) pickScript(uthmani, indopak, imlaei string) string {
	switch c.options.Script {
	case ScriptIndopak:
		return indopak
	case ScriptImlaei:
		return imlaei
	default:
		return uthmani
	}
}

// cleanTranslation removes footnote references and any leftover markup.
func cleanTranslation(text string) string {
	text = footnoteMarkup.ReplaceAllString(text, "")
	text = anyMarkup.ReplaceAllString(text, "")
	return strings.Join(strings.Fields(text), " ")
}

// # Transport

// get performs one paced GET and decodes the JSON body into dest.
// It returns the HTTP status when a response was received.
func (c *HTTPClient) get(ctx context.Context, path string, query url.Values, dest any) (int, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, err
	}

	endpoint := c.baseURL + path + "?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", constants.ContentUserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, constants.MaxContentResponseBytes))
	if err != nil {
		return resp.StatusCode, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, fmt.Errorf("unexpected status, body=%q", body[:min(len(body), 200)])
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return resp.StatusCode, fmt.Errorf("%w: %v", errMalformed, err)
	}
	return resp.StatusCode, nil
}
