package history

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	nchess "github.com/corentings/chess/v2"
	"github.com/redis/go-redis/v9"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/sulan/reconchess/internal/obslog"
)

// Loader resolves a match record source and decodes its content. Sources:
//
//	/path/to/match.json          local file
//	https://host/games/42.json   HTTP(S) download
//	redis://host:6379/0?key=k    value stored under key k
//
// Content is sniffed: JSON object for the native format, anything else is
// treated as PGN. A ".pgn" path always selects the PGN importer.
type Loader struct {
	http *fasthttp.Client

	timeout      time.Duration
	redisTimeout time.Duration
}

type LoaderOption func(*Loader)

func WithTimeout(d time.Duration) LoaderOption {
	return func(l *Loader) { l.timeout = d }
}

func WithRedisTimeout(d time.Duration) LoaderOption {
	return func(l *Loader) { l.redisTimeout = d }
}

func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		http:         &fasthttp.Client{ReadTimeout: 10 * time.Second, WriteTimeout: 10 * time.Second},
		timeout:      10 * time.Second,
		redisTimeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads and decodes the match record at source.
func (l *Loader) Load(ctx context.Context, source string) (*Record, error) {
	data, err := l.read(ctx, source)
	if err != nil {
		return nil, err
	}
	rec, err := decode(source, data)
	if err != nil {
		return nil, err
	}
	obslog.L().Info("history_loaded",
		zap.String("source", source),
		zap.String("format", rec.Source),
		zap.Int("white_turns", rec.NumTurns(nchess.White)),
		zap.Int("black_turns", rec.NumTurns(nchess.Black)),
		zap.Strings("synthesized", rec.Synthesized),
	)
	return rec, nil
}

func (l *Loader) read(ctx context.Context, source string) ([]byte, error) {
	switch {
	case strings.HasPrefix(source, "http://"), strings.HasPrefix(source, "https://"):
		return l.fetchHTTP(source)
	case strings.HasPrefix(source, "redis://"), strings.HasPrefix(source, "rediss://"):
		return l.fetchRedis(ctx, source)
	default:
		data, err := os.ReadFile(source)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrResourceUnavailable, source, err)
		}
		return data, nil
	}
}

func (l *Loader) fetchHTTP(source string) ([]byte, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer func() {
		fasthttp.ReleaseRequest(req)
		fasthttp.ReleaseResponse(resp)
	}()

	req.Header.SetMethod(fasthttp.MethodGet)
	req.SetRequestURI(source)

	if err := l.http.DoTimeout(req, resp, l.timeout); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrResourceUnavailable, source, err)
	}
	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, fmt.Errorf("%w: %s: status %d", ErrResourceUnavailable, source, resp.StatusCode())
	}
	body := resp.Body()
	out := make([]byte, len(body))
	copy(out, body)
	return out, nil
}

func (l *Loader) fetchRedis(ctx context.Context, source string) ([]byte, error) {
	opts, key, err := parseRedisSource(source)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrResourceUnavailable, err)
	}
	rdb := redis.NewClient(opts)
	defer rdb.Close()

	cctx, cancel := context.WithTimeout(ctx, l.redisTimeout)
	defer cancel()

	data, err := rdb.Get(cctx, key).Bytes()
	if err == redis.Nil {
		return nil, fmt.Errorf("%w: no record under key %q", ErrResourceUnavailable, key)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: redis: %v", ErrResourceUnavailable, err)
	}
	return data, nil
}

// parseRedisSource splits a redis:// source into client options and the record
// key carried in the query string.
func parseRedisSource(source string) (*redis.Options, string, error) {
	u, err := url.Parse(source)
	if err != nil {
		return nil, "", err
	}
	key := u.Query().Get("key")
	if key == "" {
		return nil, "", fmt.Errorf("redis source needs a key parameter: %s", source)
	}
	db := 0
	if p := strings.TrimPrefix(u.Path, "/"); p != "" {
		if n, err := strconv.Atoi(p); err == nil {
			db = n
		}
	}
	pass, _ := u.User.Password()
	return &redis.Options{Addr: u.Host, Password: pass, DB: db}, key, nil
}

func decode(source string, data []byte) (*Record, error) {
	if strings.HasSuffix(strings.ToLower(source), ".pgn") {
		return DecodePGN(data)
	}
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte("{")) {
		return DecodeJSON(data)
	}
	return DecodePGN(data)
}
