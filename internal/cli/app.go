package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/tikbook/internal/live"
	"github.com/dmitrijs2005/tikbook/internal/logging"
	"github.com/dmitrijs2005/tikbook/internal/services"
)

type App struct {
	coord  *services.Coordinator
	sess   *services.Session
	room   *live.Room
	reader *bufio.Reader
	out    io.Writer
	logger logging.Logger
}

// NewApp builds a shell over coord. A nil sess starts signed out.
func NewApp(coord *services.Coordinator, sess *services.Session, in io.Reader, out io.Writer, logger logging.Logger) *App {
	if sess == nil {
		sess = services.NewSession()
	}
	if logger == nil {
		logger = logging.NopLogger{}
	}
	return &App{
		coord:  coord,
		sess:   sess,
		reader: bufio.NewReader(in),
		out:    out,
		logger: logger,
	}
}

func (a *App) isLoggedIn() bool {
	return a.sess.Authenticated()
}

func (a *App) isAdmin() bool {
	u := a.sess.User()
	return u != nil && u.IsAdmin()
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func (a *App) getStatus() string {
	var parts []string
	if u := a.sess.User(); u != nil {
		parts = append(parts, "@"+u.Username)
	}
	if a.room != nil {
		parts = append(parts, "live:"+a.room.Info().ID)
	}
	if len(parts) == 0 {
		return ""
	}
	return "(" + strings.Join(parts, " ") + ")"
}

// Run reads commands from the app's input until EOF or exit.
func (a *App) Run(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to tikbook (type 'help' for commands)")
	if a.isLoggedIn() {
		fmt.Fprintln(a.out, "Signed in as", a.sess.User().Username)
	}
	a.logger.Debug(ctx, "shell started", "signed_in", a.isLoggedIn())
	runREPL(ctx, a, a.getStatus, a.reader, a.out)
	a.logger.Debug(ctx, "shell stopped")
}
