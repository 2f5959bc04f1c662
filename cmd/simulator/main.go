// Command simulator replays a JSONL command script against a portfolio
// session and prints the resulting snapshot.
//
// Each script line is a command envelope such as
//
//	{"type": "SET_SCHEME", "payload": {"schemeId": 2}}
//
// Blank lines and lines starting with # are skipped. The session starts
// from a snapshot file (SNAPSHOT_PATH) or the bootstrap default.
package main

import (
	"bufio"
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/simaogato/portfolio-engine/internal/bootstrap"
	"github.com/simaogato/portfolio-engine/internal/command"
	"github.com/simaogato/portfolio-engine/internal/config"
	"github.com/simaogato/portfolio-engine/internal/domain"
	"github.com/simaogato/portfolio-engine/internal/engine"
	"github.com/simaogato/portfolio-engine/internal/marketdata"
	"github.com/simaogato/portfolio-engine/internal/usecase/reducer"
)

func main() {
	cfg := config.Load()
	log := newLogger(cfg)

	catalog := marketdata.NewCatalog()

	initial, err := initialState(cfg, catalog)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.SnapshotPath).Msg("failed to load snapshot")
	}

	session := engine.NewSession(initial, reducer.New(catalog), log)

	script, closeScript, err := openScript(cfg.ScriptPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.ScriptPath).Msg("failed to open script")
	}
	defer closeScript()

	applied, skipped := replay(session, script, log)
	log.Info().Int("applied", applied).Int("skipped", skipped).Msg("script replay finished")

	if cfg.PrintState {
		final := session.Snapshot()
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(final); err != nil {
			log.Fatal().Err(err).Msg("failed to print snapshot")
		}
	}
}

// replay dispatches every decodable script line; undecodable lines are
// logged and skipped so one bad line cannot abort a replay
func replay(session *engine.Session, script io.Reader, log zerolog.Logger) (applied, skipped int) {
	scanner := bufio.NewScanner(script)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		cmd, err := command.UnmarshalCommand([]byte(text))
		if err != nil {
			log.Warn().Err(err).Int("line", line).Msg("skipping undecodable command")
			skipped++
			continue
		}

		session.Dispatch(cmd)
		applied++
	}
	if err := scanner.Err(); err != nil {
		log.Fatal().Err(err).Msg("failed to read script")
	}
	return applied, skipped
}

func initialState(cfg *config.Config, catalog domain.MarketCatalog) (domain.PortfolioState, error) {
	if cfg.SnapshotPath == "" {
		return bootstrap.DefaultState(catalog), nil
	}

	data, err := os.ReadFile(cfg.SnapshotPath)
	if err != nil {
		return domain.PortfolioState{}, err
	}

	var state domain.PortfolioState
	if err := json.Unmarshal(data, &state); err != nil {
		return domain.PortfolioState{}, err
	}
	if err := state.Validate(); err != nil {
		return domain.PortfolioState{}, err
	}
	return state, nil
}

func openScript(path string) (io.Reader, func(), error) {
	if path == "" || path == "-" {
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { _ = f.Close() }, nil
}

func newLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var out io.Writer = os.Stderr
	if cfg.LogPretty {
		out = zerolog.ConsoleWriter{Out: os.Stderr}
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}
