package app

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/kballard/go-shellquote"
	"gopkg.in/yaml.v3"

	"showsearch/internal/browse"
	"showsearch/internal/config"
	"showsearch/internal/fuzzy"
	"showsearch/internal/tvmaze"
)

type commandHandler func(context.Context, []string) (CommandResult, error)

type command struct {
	name    string
	usage   string
	summary string
	handler commandHandler
	// verbatim commands get the rest of the line as a single argument.
	verbatim bool
}

// CommandResult tells the UI what a command did. The screen itself is read
// from Screen/State after every command.
type CommandResult struct {
	Message string
	Quit    bool
	// Focus is the 1-based list row the cursor should move to; zero leaves it.
	Focus int
	// Refreshed reports that the command replaced the result list.
	Refreshed bool
	// EditConfig asks the UI to hand the terminal to the interactive editor.
	EditConfig bool
}

type App struct {
	config     config.Config
	configPath string
	httpClient *http.Client
	query      *browse.QueryController
	presenter  *browse.Presenter
	commands   map[string]*command
}

// Dependencies overrides the collaborators App would otherwise build from
// its configuration.
type Dependencies struct {
	HTTPClient *http.Client
	Searcher   browse.Searcher
	Details    browse.DetailFetcher
}

func New(cfg config.Config, configPath string) *App {
	return NewWithDependencies(cfg, configPath, Dependencies{})
}

func NewWithDependencies(cfg config.Config, configPath string, deps Dependencies) *App {
	httpClient := deps.HTTPClient
	if httpClient == nil {
		httpClient = newHTTPClient(cfg)
	}

	var directory *tvmaze.Client
	if deps.Searcher == nil || deps.Details == nil {
		directory = tvmaze.NewClient(httpClient, cfg.BaseURL, cfg.UserAgent)
	}
	var searcher browse.Searcher = directory
	if deps.Searcher != nil {
		searcher = deps.Searcher
	}
	var fetcher browse.DetailFetcher = directory
	if deps.Details != nil {
		fetcher = deps.Details
	}

	presenter := browse.NewPresenter(browse.NewDetailAggregator(fetcher))

	application := &App{
		config:     cfg,
		configPath: configPath,
		httpClient: httpClient,
		query:      browse.NewQueryController(searcher, presenter),
		presenter:  presenter,
		commands:   make(map[string]*command),
	}
	application.registerCommands()
	return application
}

func newHTTPClient(cfg config.Config) *http.Client {
	transport := &http.Transport{
		Proxy:           http.ProxyFromEnvironment,
		TLSClientConfig: &tls.Config{InsecureSkipVerify: !cfg.TLSVerify},
	}
	if proxyURL := strings.TrimSpace(cfg.Proxy); proxyURL != "" {
		if parsed, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(parsed)
		} else {
			log.Printf("ignoring invalid proxy %q: %v", proxyURL, err)
		}
	}
	return &http.Client{
		Timeout:   time.Duration(cfg.RequestTimeout) * time.Second,
		Transport: transport,
	}
}

func (a *App) Config() config.Config {
	return a.config
}

func (a *App) CommandNames() []string {
	names := make([]string, 0, len(a.commands))
	for name := range a.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CommandName resolves a command or alias to its canonical name.
func (a *App) CommandName(alias string) (string, bool) {
	cmd, ok := a.commands[strings.ToLower(alias)]
	if !ok {
		return "", false
	}
	return cmd.name, true
}

func (a *App) Close() error {
	a.httpClient.CloseIdleConnections()
	return nil
}

// State is the view state currently on screen.
func (a *App) State() browse.ViewState {
	return a.presenter.State()
}

func (a *App) Status() browse.Status {
	return a.presenter.Status()
}

func (a *App) Screen() browse.Screen {
	return a.presenter.Describe()
}

// Query is the text of the most recent search.
func (a *App) Query() string {
	return a.query.Query()
}

// Search sets the query and runs it.
func (a *App) Search(ctx context.Context, query string) error {
	a.query.SetQuery(query)
	return a.query.Search(ctx)
}

// Select opens the 0-based row of the current result list.
func (a *App) Select(ctx context.Context, index int) error {
	return a.presenter.Select(ctx, index)
}

func (a *App) Back() bool {
	return a.presenter.Back()
}

// OpenShow loads a show by id without going through a result list.
func (a *App) OpenShow(ctx context.Context, showID int) error {
	return a.presenter.Open(ctx, showID)
}

func (a *App) Execute(ctx context.Context, input string) (CommandResult, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return CommandResult{}, nil
	}

	name, rest := input, ""
	if i := strings.IndexFunc(input, unicode.IsSpace); i >= 0 {
		name, rest = input[:i], strings.TrimSpace(input[i:])
	}
	if cmd, ok := a.commands[strings.ToLower(name)]; ok && cmd.verbatim {
		return cmd.handler(ctx, verbatimArgs(rest))
	}

	args, err := shellquote.Split(input)
	if err != nil {
		return CommandResult{}, err
	}
	if len(args) == 0 {
		return CommandResult{}, nil
	}

	cmdName := strings.ToLower(args[0])
	cmd, ok := a.commands[cmdName]
	if !ok {
		return CommandResult{Message: fmt.Sprintf("unknown command: %s", args[0])}, nil
	}

	return cmd.handler(ctx, args[1:])
}

// verbatimArgs keeps rest as typed. A lone quoted word is unquoted so that
// `search "the office"` searches for the office.
func verbatimArgs(rest string) []string {
	if rest == "" {
		return nil
	}
	if words, err := shellquote.Split(rest); err == nil && len(words) == 1 {
		return words
	}
	return []string{rest}
}

func (a *App) registerCommands() {
	a.registerCommand("help", "help", "Show available commands", a.helpCommand, "h", "?")
	a.registerCommand("search", "search <query>", "Search the show directory", a.searchCommand, "s")
	a.commands["search"].verbatim = true
	a.registerCommand("open", "open <row>", "Show details and cast for a result row", a.openCommand, "o")
	a.registerCommand("show", "show <show_id>", "Show details and cast for a show id", a.showCommand)
	a.registerCommand("back", "back", "Return from a show to the result list", a.backCommand, "b")
	a.registerCommand("find", "find <text>", "Move the cursor to the closest matching result", a.findCommand, "f")
	a.registerCommand("config", "config [show|edit]", "View or edit application configuration", a.configCommand)
	a.registerCommand("exit", "exit", "Exit the application", a.exitCommand, "quit")
}

func (a *App) registerCommand(name, usage, summary string, handler commandHandler, aliases ...string) {
	cmd := &command{name: name, usage: usage, summary: summary, handler: handler}
	names := append([]string{name}, aliases...)
	for _, alias := range names {
		a.commands[alias] = cmd
	}
}

func (a *App) helpCommand(_ context.Context, _ []string) (CommandResult, error) {
	seen := make(map[string]bool, len(a.commands))
	cmds := make([]*command, 0, len(a.commands))
	for _, cmd := range a.commands {
		if seen[cmd.name] {
			continue
		}
		seen[cmd.name] = true
		cmds = append(cmds, cmd)
	}
	sort.Slice(cmds, func(i, j int) bool { return cmds[i].name < cmds[j].name })

	var b strings.Builder
	b.WriteString("Commands:\n")
	for _, cmd := range cmds {
		fmt.Fprintf(&b, "  %-20s %s\n", cmd.usage, cmd.summary)
	}
	return CommandResult{Message: strings.TrimRight(b.String(), "\n")}, nil
}

func (a *App) searchCommand(ctx context.Context, args []string) (CommandResult, error) {
	if len(args) == 0 {
		return CommandResult{Message: "Usage: search <query>"}, nil
	}

	query := strings.Join(args, " ")
	a.query.SetQuery(query)
	applied, err := a.query.Run(ctx)
	if err != nil {
		return CommandResult{}, fmt.Errorf("search failed: %w", err)
	}
	if !applied {
		return CommandResult{}, nil
	}

	list, ok := a.presenter.State().(browse.ListView)
	if !ok {
		// A newer request took over the screen.
		return CommandResult{Refreshed: true}, nil
	}
	if len(list.Results) == 0 {
		return CommandResult{Message: fmt.Sprintf("No shows found for %q.", query), Refreshed: true}, nil
	}
	return CommandResult{Message: fmt.Sprintf("Found %d shows for %q.", len(list.Results), query), Refreshed: true}, nil
}

func (a *App) openCommand(ctx context.Context, args []string) (CommandResult, error) {
	if len(args) != 1 {
		return CommandResult{Message: "Usage: open <row>"}, nil
	}
	row, err := strconv.Atoi(args[0])
	if err != nil {
		return CommandResult{Message: fmt.Sprintf("Row must be a number: %s", args[0])}, nil
	}

	if err := a.Select(ctx, row-1); err != nil {
		if errors.Is(err, browse.ErrInvalidSelection) {
			return CommandResult{Message: fmt.Sprintf("No result row %d to open.", row)}, nil
		}
		return CommandResult{}, err
	}
	return CommandResult{}, nil
}

func (a *App) showCommand(ctx context.Context, args []string) (CommandResult, error) {
	if len(args) != 1 {
		return CommandResult{Message: "Usage: show <show_id>"}, nil
	}
	id, err := strconv.Atoi(args[0])
	if err != nil || id <= 0 {
		return CommandResult{Message: fmt.Sprintf("Show id must be a positive number: %s", args[0])}, nil
	}

	if err := a.OpenShow(ctx, id); err != nil {
		return CommandResult{}, err
	}
	return CommandResult{}, nil
}

func (a *App) backCommand(_ context.Context, _ []string) (CommandResult, error) {
	if !a.Back() {
		return CommandResult{Message: "Already showing the result list."}, nil
	}
	return CommandResult{}, nil
}

func (a *App) findCommand(_ context.Context, args []string) (CommandResult, error) {
	if len(args) == 0 {
		return CommandResult{Message: "Usage: find <text>"}, nil
	}
	list, ok := a.presenter.State().(browse.ListView)
	if !ok {
		return CommandResult{Message: "find works on the result list; use 'back' first."}, nil
	}

	names := make([]string, len(list.Results))
	for i, item := range list.Results {
		names[i] = item.Name
	}
	text := strings.Join(args, " ")
	index, found := fuzzy.Best(names, text)
	if !found {
		return CommandResult{Message: fmt.Sprintf("No result resembles %q.", text)}, nil
	}
	return CommandResult{Focus: index + 1}, nil
}

func (a *App) configCommand(ctx context.Context, args []string) (CommandResult, error) {
	if len(args) == 0 {
		return CommandResult{Message: "Usage: config [show|edit]"}, nil
	}
	switch strings.ToLower(args[0]) {
	case "show":
		data, err := yaml.Marshal(a.config)
		if err != nil {
			return CommandResult{}, err
		}
		return CommandResult{Message: strings.TrimRight(string(data), "\n")}, nil
	case "edit":
		return CommandResult{EditConfig: true}, nil
	default:
		return CommandResult{Message: fmt.Sprintf("unknown config action: %s", args[0])}, nil
	}
}

// EditConfig runs the interactive editor and saves its answers. Connection
// settings take effect on the next start.
func (a *App) EditConfig(ctx context.Context) (CommandResult, error) {
	updated, err := config.EditInteractive(ctx, a.config)
	if err != nil {
		return CommandResult{}, err
	}
	if err := config.Save(a.configPath, updated); err != nil {
		return CommandResult{}, err
	}
	a.config = updated
	log.Println("configuration updated")
	return CommandResult{Message: "Configuration saved. Connection settings apply after a restart."}, nil
}

func (a *App) exitCommand(_ context.Context, _ []string) (CommandResult, error) {
	return CommandResult{Quit: true}, nil
}
