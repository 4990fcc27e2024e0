package router

import (
	"io"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/dtroode/quantum-mirror/internal/api/cli/handler"
	"github.com/dtroode/quantum-mirror/internal/api/cli/middleware"
	"github.com/dtroode/quantum-mirror/internal/logger"
	"github.com/dtroode/quantum-mirror/internal/service"
)

// AppName is the executable name shown in help output.
const AppName = "quantum-mirror"

// Router builds the command tree of the quantum-mirror CLI.
type Router struct {
	session *service.Session
	media   handler.MediaService
	out     io.Writer
	version string
	logger  *logger.Logger
}

// New creates new CLI Router instance.
func New(
	session *service.Session,
	media handler.MediaService,
	out io.Writer,
	version string,
	logger *logger.Logger,
) *Router {
	return &Router{
		session: session,
		media:   media,
		out:     out,
		version: version,
		logger:  logger,
	}
}

// Register subscribes the visitor notifications to the session and returns
// the root command with every action wrapped in request logging.
func (r *Router) Register() *cli.Command {
	notifier := handler.NewNotifier(r.out, r.session.Stats().Level)
	r.session.Subscribe(notifier.Handle)

	root := &cli.Command{
		Name:    AppName,
		Usage:   "consent-gated avatar studio",
		Version: r.version,
		Writer:  r.out,
		Commands: []*cli.Command{
			r.consentRoutes(),
			r.avatarRoutes(),
		},
	}
	root.Commands = append(root.Commands, r.progressRoutes()...)
	root.Commands = append(root.Commands, r.preferenceRoutes()...)

	wrap(middleware.NewLogging(r.logger), nil, root.Commands)
	return root
}

func (r *Router) consentRoutes() *cli.Command {
	h := handler.NewConsent(r.session.Consent, r.out, r.logger)
	return &cli.Command{
		Name:  "consent",
		Usage: "manage your data processing consent",
		Commands: []*cli.Command{
			{
				Name:   "grant",
				Usage:  "answer the consent questions and save your consent",
				Flags:  h.GrantFlags(),
				Action: h.Grant,
			},
			{
				Name:   "show",
				Usage:  "show the consent on file",
				Action: h.Show,
			},
			{
				Name:   "withdraw",
				Usage:  "withdraw your consent",
				Action: h.Withdraw,
			},
		},
	}
}

func (r *Router) avatarRoutes() *cli.Command {
	h := handler.NewAvatar(r.session.Avatars, r.media, r.out, r.logger)
	return &cli.Command{
		Name:  "avatar",
		Usage: "create and use avatars",
		Commands: []*cli.Command{
			{
				Name:   "create",
				Usage:  "create an avatar in the chosen style",
				Flags:  h.CreateFlags(),
				Action: h.Create,
			},
			{
				Name:   "list",
				Usage:  "list your avatars",
				Action: h.List,
			},
			{
				Name:      "show",
				Usage:     "show an avatar and the state of its video",
				ArgsUsage: "ID",
				Action:    h.Show,
			},
			{
				Name:      "export",
				Usage:     "copy the video an avatar was created from",
				ArgsUsage: "ID DEST",
				Action:    h.Export,
			},
			{
				Name:      "delete",
				Usage:     "delete an avatar permanently",
				ArgsUsage: "ID",
				Action:    h.Delete,
			},
			{
				Name:      "ar",
				Usage:     "view an avatar in AR",
				ArgsUsage: "ID",
				Action:    h.AR,
			},
			{
				Name:      "talk",
				Usage:     "talk with an avatar",
				ArgsUsage: "ID",
				Action:    h.Talk,
			},
		},
	}
}

func (r *Router) progressRoutes() []*cli.Command {
	h := handler.NewProgress(r.session, r.session.Achievements, r.out)
	return []*cli.Command{
		{
			Name:   "achievements",
			Usage:  "list achievements",
			Action: h.Achievements,
		},
		{
			Name:   "stats",
			Usage:  "show your score and level",
			Action: h.Stats,
		},
		{
			Name:   "leaderboard",
			Usage:  "show the leaderboard",
			Action: h.Leaderboard,
		},
	}
}

func (r *Router) preferenceRoutes() []*cli.Command {
	avatars := handler.NewAvatar(r.session.Avatars, r.media, r.out, r.logger)
	theme := handler.NewTheme(r.session.Preferences, r.out)
	return []*cli.Command{
		{
			Name:   "styles",
			Usage:  "list avatar styles",
			Action: avatars.Styles,
		},
		{
			Name:      "theme",
			Usage:     "show or set the display theme",
			ArgsUsage: "[dark|light]",
			Action:    theme.Handle,
		},
	}
}

// wrap applies the logging middleware to every action in the tree.
func wrap(logging *middleware.Logging, parents []string, commands []*cli.Command) {
	for _, c := range commands {
		path := append(parents[:len(parents):len(parents)], c.Name)
		if c.Action != nil {
			c.Action = logging.Wrap(strings.Join(path, " "), c.Action)
		}
		wrap(logging, path, c.Commands)
	}
}
