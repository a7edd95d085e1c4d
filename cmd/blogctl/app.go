package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/blogclient"
	"github.com/dmitrymomot/blogclient/pkg/auth"
	"github.com/dmitrymomot/blogclient/pkg/i18n"
	"github.com/dmitrymomot/blogclient/pkg/ui"
	"github.com/dmitrymomot/blogclient/pkg/validator"
)

var (
	// errReported marks failures already shown to the user.
	errReported  = errors.New("blogctl: reported")
	errForbidden = errors.New("blogctl: admin role required")
)

// app is the state shared by all commands of one invocation.
type app struct {
	in  *bufio.Reader
	out io.Writer

	// cfg, when set, replaces LoadConfig.
	cfg  *blogclient.Config
	opts []blogclient.Option

	apiURL   string
	language string

	client *blogclient.Client

	mu        sync.Mutex
	lastAlert string
}

func newApp(in io.Reader, out io.Writer) *app {
	return &app{in: bufio.NewReader(in), out: out}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:               "blogctl",
		Short:             "Command-line client for the blog API",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	root.PersistentFlags().StringVar(&a.apiURL, "api-url", "", "API base URL (overrides BLOG_API_URL)")
	root.PersistentFlags().StringVar(&a.language, "lang", "", "message language (overrides BLOG_LANGUAGE)")

	root.AddCommand(
		newLoginCmd(a),
		newLogoutCmd(a),
		newRegisterCmd(a),
		newWhoamiCmd(a),
		newPostsCmd(a),
		newCommentsCmd(a),
		newUsersCmd(a),
		newProfileCmd(a),
	)
	return root
}

// setup builds the client and restores the persisted session.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	var cfg blogclient.Config
	if a.cfg != nil {
		cfg = *a.cfg
	} else {
		loaded, err := blogclient.LoadConfig()
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if a.apiURL != "" {
		cfg.APIURL = a.apiURL
	}
	if a.language != "" {
		cfg.Language = a.language
	}

	opts := append([]blogclient.Option{
		blogclient.WithRouter(terminalRouter{a: a}),
		blogclient.WithUIObserver(a.onUIChange),
	}, a.opts...)

	client, err := blogclient.New(cmd.Context(), cfg, opts...)
	if err != nil {
		return err
	}
	a.client = client

	if err := client.Auth.Rehydrate(cmd.Context()); err != nil {
		client.Logger().DebugContext(cmd.Context(), "session not restored", slog.String("error", err.Error()))
	}
	return nil
}

func (a *app) close() {
	if a.client != nil {
		_ = a.client.Close()
		a.client = nil
	}
}

// onUIChange prints new alerts and answers confirmation dialogs from the
// terminal.
func (a *app) onUIChange(s ui.State) {
	a.mu.Lock()
	switch {
	case s.Alert.Show && s.Alert.Message != a.lastAlert:
		a.lastAlert = s.Alert.Message
		fmt.Fprintln(a.out, s.Alert.Message)
	case !s.Alert.Show:
		a.lastAlert = ""
	}
	a.mu.Unlock()

	if s.Confirm != nil {
		go a.answer(*s.Confirm)
	}
}

func (a *app) answer(req ui.ConfirmRequest) {
	reply := a.prompt(a.t("ui.confirm", i18n.M{"message": req.Message}))
	switch strings.ToLower(reply) {
	case "y", "yes", "s", "sim":
		a.client.UI.ResolveConfirm(true)
	default:
		a.client.UI.ResolveConfirm(false)
	}
}

// confirm asks before a destructive action unless yes is set.
func (a *app) confirm(ctx context.Context, title, msg string, yes bool) (bool, error) {
	if yes {
		return true, nil
	}
	ok, err := a.client.UI.Confirm(ctx, title, msg)
	if err != nil {
		return false, err
	}
	if !ok {
		a.println(a.t("cli.cancelled", nil))
	}
	return ok, nil
}

// prompt writes label and reads one trimmed line. A label ending in a space
// is written as is, otherwise ": " is appended.
func (a *app) prompt(label string) string {
	a.mu.Lock()
	if strings.HasSuffix(label, " ") {
		fmt.Fprint(a.out, label)
	} else {
		fmt.Fprint(a.out, label+": ")
	}
	a.mu.Unlock()

	line, _ := a.in.ReadString('\n')
	return strings.TrimSpace(line)
}

func (a *app) println(args ...any) {
	a.mu.Lock()
	defer a.mu.Unlock()
	fmt.Fprintln(a.out, args...)
}

func (a *app) t(key string, values i18n.M) string {
	return a.client.Translator.TranslateMessage(key, values)
}

func (a *app) form() *validator.Form {
	return validator.NewForm(validator.WithTranslator(a.client.Translator.TranslateMessage))
}

// reportForm prints the failures of an invalid form.
func (a *app) reportForm(form *validator.Form) error {
	for _, name := range form.Names() {
		for _, msg := range form.FieldErrors(name) {
			a.println(fmt.Sprintf("  %s: %s", name, msg))
		}
	}
	return errors.Join(errReported, form.Err())
}

// guard enforces meta for the current session.
func (a *app) guard(ctx context.Context, meta auth.RouteMeta) error {
	to, ok := a.client.Auth.Guard(meta)
	if ok {
		return nil
	}
	if to.Name == auth.RouteLogin {
		_ = terminalRouter{a: a}.Push(ctx, to)
		return errors.Join(errReported, blogclient.ErrNotSignedIn)
	}
	a.println(a.t("auth.forbidden", nil))
	return errors.Join(errReported, errForbidden)
}

// terminalRouter turns login redirects into a re-login hint. Other routes
// have no terminal representation.
type terminalRouter struct {
	a *app
}

func (r terminalRouter) Push(_ context.Context, to auth.Route) error {
	if to.Name == auth.RouteLogin && to.Reason() != "" {
		r.a.println(r.a.t("cli.relogin", nil))
	}
	return nil
}
