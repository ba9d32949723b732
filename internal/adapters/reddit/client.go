package reddit

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"steam-pulse/internal/domain"
	"steam-pulse/internal/infra/metrics"
)

const (
	tokenURL  = "https://www.reddit.com/api/v1/access_token"
	searchURL = "https://oauth.reddit.com/search"

	// Поисковый контракт: новые первыми, глубина месяц, до 500 результатов.
	searchSort   = "new"
	searchWindow = "month"
	searchLimit  = 500
	pageSize     = 100
)

// ErrNoCredentials возвращается, когда заданы не все пять реквизитов API.
// В этом случае клиент считается недоступным и сетевых вызовов не делает.
var ErrNoCredentials = errors.New("reddit: не заданы учётные данные API")

// Credentials — реквизиты приложения Reddit (password grant).
type Credentials struct {
	ClientID     string
	ClientSecret string
	UserAgent    string
	Username     string
	Password     string
}

func (c Credentials) complete() bool {
	return c.ClientID != "" && c.ClientSecret != "" && c.UserAgent != "" && c.Username != "" && c.Password != ""
}

// Client ищет посты через Reddit API. Реализует domain.MentionSource.
type Client struct {
	http  *resty.Client
	creds Credentials
	log   zerolog.Logger

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

var _ domain.MentionSource = (*Client)(nil)

// NewClient создаёт клиента Reddit.
func NewClient(creds Credentials, timeout time.Duration, logger zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	httpc := resty.New().
		SetTimeout(timeout).
		SetHeader("User-Agent", creds.UserAgent)
	return &Client{http: httpc, creds: creds, log: logger}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

type listingResponse struct {
	Data struct {
		After    string `json:"after"`
		Children []struct {
			Data struct {
				Title      string  `json:"title"`
				CreatedUTC float64 `json:"created_utc"`
			} `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

// Search выполняет постраничный поиск по запросу и возвращает посты
// с абсолютными метками времени создания.
func (c *Client) Search(ctx context.Context, query string) ([]domain.Post, error) {
	if !c.creds.complete() {
		return nil, ErrNoCredentials
	}
	token, err := c.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	var posts []domain.Post
	after := ""
	for len(posts) < searchLimit {
		var page listingResponse
		req := c.http.R().
			SetContext(ctx).
			SetAuthToken(token).
			SetQueryParams(map[string]string{
				"q":     query,
				"sort":  searchSort,
				"t":     searchWindow,
				"limit": strconv.Itoa(pageSize),
			}).
			SetResult(&page)
		if after != "" {
			req.SetQueryParam("after", after)
		}
		start := time.Now()
		resp, err := req.Get(searchURL)
		metrics.ObserveNetworkRequest("reddit", "search", searchURL, start, err)
		if err != nil {
			return nil, fmt.Errorf("reddit: запрос поиска: %w", err)
		}
		if resp.IsError() {
			return nil, fmt.Errorf("reddit: поиск вернул статус %d", resp.StatusCode())
		}
		if len(page.Data.Children) == 0 {
			break
		}
		for _, child := range page.Data.Children {
			posts = append(posts, domain.Post{
				Title:     child.Data.Title,
				CreatedAt: time.Unix(int64(child.Data.CreatedUTC), 0).UTC(),
			})
		}
		if page.Data.After == "" {
			break
		}
		after = page.Data.After
	}
	if len(posts) > searchLimit {
		posts = posts[:searchLimit]
	}
	c.log.Debug().Str("query", query).Int("posts", len(posts)).Msg("reddit: поиск завершён")
	return posts, nil
}

// accessToken возвращает действующий OAuth-токен, при необходимости
// обновляя его password grant-ом.
func (c *Client) accessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token != "" && time.Now().Before(c.tokenExpiry) {
		return c.token, nil
	}

	var tr tokenResponse
	start := time.Now()
	resp, err := c.http.R().
		SetContext(ctx).
		SetBasicAuth(c.creds.ClientID, c.creds.ClientSecret).
		SetFormData(map[string]string{
			"grant_type": "password",
			"username":   c.creds.Username,
			"password":   c.creds.Password,
		}).
		SetResult(&tr).
		Post(tokenURL)
	metrics.ObserveNetworkRequest("reddit", "token", tokenURL, start, err)
	if err != nil {
		return "", fmt.Errorf("reddit: получение токена: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("reddit: токен не выдан, статус %d", resp.StatusCode())
	}
	if tr.AccessToken == "" {
		return "", fmt.Errorf("reddit: пустой токен в ответе")
	}
	c.token = tr.AccessToken
	// Минута запаса, чтобы не поймать истечение на середине выборки.
	c.tokenExpiry = time.Now().Add(time.Duration(tr.ExpiresIn)*time.Second - time.Minute)
	return c.token, nil
}
