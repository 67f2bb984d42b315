package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mohitkumar/wfnotify/agent"
	"github.com/mohitkumar/wfnotify/analytics"
	"github.com/mohitkumar/wfnotify/config"
	"github.com/mohitkumar/wfnotify/container"
	"github.com/mohitkumar/wfnotify/fixture"
	"github.com/mohitkumar/wfnotify/history"
	"github.com/mohitkumar/wfnotify/logger"
	"github.com/mohitkumar/wfnotify/model"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type cfg struct {
	config.Config
}
type cli struct {
	cfg cfg
}

func setupFlags(cmd *cobra.Command) error {
	flags := cmd.PersistentFlags()
	flags.String("config-file", "", "Path to config file.")
	flags.String("redis-addr", "localhost:6379", "comma separated list of redis host:port")
	flags.String("redis-password", "", "redis password")
	flags.String("namespace", "wfnotify", "namespace used in storage")
	flags.String("sqlite-path", "wfnotify.db", "sqlite database file")
	flags.Int("http-port", 8080, "http port for rest endpoints")
	flags.String("storage-impl", "memory", "implementation of underline storage: memory, redis or sqlite")
	flags.Int("smtp-port", 25, "default port of the mail relay")
	flags.String("smtp-user", "", "mail relay user")
	flags.String("smtp-password", "", "mail relay password")
	flags.String("public-site", "website", "site used for production links")
	flags.String("shell-path", "/sitecore/shell", "path of the authoring shell")
	flags.Bool("ambient-site", false, "resolve production links by switching the active site")
	flags.Duration("state-cache-ttl", 5*time.Minute, "ttl of cached state labels")
	flags.String("log-level", "info", "log level")
	flags.String("analytics-file", "", "file receiving notification audit records")
	flags.Bool("stats", false, "record notification counters with opencensus")
	flags.Int("notify-capacity", 512, "pending notification capacity")
	return viper.BindPFlags(flags)
}

func (c *cli) setupConfig(cmd *cobra.Command, args []string) error {
	var err error

	configFile, err := cmd.Flags().GetString("config-file")
	if err != nil {
		return err
	}
	if configFile != "" {
		viper.SetConfigFile(configFile)
		if err = viper.ReadInConfig(); err != nil {
			// it's ok if config file doesn't exist
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
				return err
			}
		}
	}

	c.cfg.RedisConfig.Addrs = strings.Split(viper.GetString("redis-addr"), ",")
	c.cfg.RedisConfig.Namespace = viper.GetString("namespace")
	c.cfg.RedisConfig.Password = viper.GetString("redis-password")
	c.cfg.SqliteConfig.Path = viper.GetString("sqlite-path")
	c.cfg.HttpPort = viper.GetInt("http-port")
	c.cfg.StorageType = config.StorageType(viper.GetString("storage-impl"))
	c.cfg.MailConfig.Port = viper.GetInt("smtp-port")
	c.cfg.MailConfig.Username = viper.GetString("smtp-user")
	c.cfg.MailConfig.Password = viper.GetString("smtp-password")
	c.cfg.LinkConfig.PublicSite = viper.GetString("public-site")
	c.cfg.LinkConfig.ShellPath = viper.GetString("shell-path")
	c.cfg.LinkConfig.AmbientSite = viper.GetBool("ambient-site")
	if err = viper.UnmarshalKey("sites", &c.cfg.LinkConfig.Sites); err != nil {
		return err
	}
	c.cfg.StateCacheTTL = viper.GetDuration("state-cache-ttl")
	c.cfg.LogLevel = viper.GetString("log-level")
	c.cfg.NotifyCapacity = viper.GetInt("notify-capacity")
	if file := viper.GetString("analytics-file"); file != "" {
		c.cfg.AnalyticsConfig.FileName = file
		c.cfg.AnalyticsConfig.CollectorTypes = append(c.cfg.AnalyticsConfig.CollectorTypes, analytics.LOG_FILE_DATA_COLLECTOR)
	}
	if viper.GetBool("stats") {
		c.cfg.AnalyticsConfig.CollectorTypes = append(c.cfg.AnalyticsConfig.CollectorTypes, analytics.STATS_DATA_COLLECTOR)
	}
	if err = logger.Init(c.cfg.LogLevel, false); err != nil {
		return err
	}
	return c.cfg.Validate()
}

func (c *cli) run(cmd *cobra.Command, args []string) error {
	var err error
	agent, err := agent.New(c.cfg.Config)
	if err != nil {
		return err
	}
	err = agent.Start()
	if err != nil {
		return err
	}
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigc:
	case <-agent.Done():
	}
	return agent.Shutdown()
}

func (c *cli) container() (*container.DIContiner, error) {
	d := container.NewDiContainer()
	if err := d.Init(c.cfg.Config); err != nil {
		return nil, err
	}
	return d, nil
}

func (c *cli) history(cmd *cobra.Command, args []string) error {
	d, err := c.container()
	if err != nil {
		return err
	}
	defer d.Close()
	ctx := context.Background()

	lang, _ := cmd.Flags().GetString("la")
	version, _ := cmd.Flags().GetInt("v")
	actionId, _ := cmd.Flags().GetString("action")
	actor, _ := cmd.Flags().GetString("actor")
	comment, _ := cmd.Flags().GetString("comment")

	item, err := d.GetStorage().GetItem(ctx, model.ItemKey{Id: args[0], Language: lang, Version: version})
	if err != nil {
		return fmt.Errorf("item %s: %w", args[0], err)
	}
	var records []model.WorkflowEventRecord
	if actionId != "" {
		action, err := d.GetStorage().GetActionDefinition(ctx, actionId)
		if err != nil {
			return fmt.Errorf("action %s: %w", actionId, err)
		}
		ac := d.GetDispatcher().Context(ctx, *action, *item, actor, comment)
		records = d.GetReconstructor().Build(ctx, ac)
	} else if records, err = d.GetEventLogReader().Read(ctx, *item); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), history.ToTextTable(records))
	return nil
}

func (c *cli) load(cmd *cobra.Command, args []string) error {
	d, err := c.container()
	if err != nil {
		return err
	}
	defer d.Close()

	f := fixture.Sample()
	if len(args) == 1 {
		if f, err = fixture.ReadFile(args[0]); err != nil {
			return err
		}
	}
	if err := f.Load(context.Background(), d.GetStorage()); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "loaded %d workflows, %d actions, %d items, %d users, %d events\n",
		len(f.Workflows), len(f.Actions), len(f.Items), len(f.Users), len(f.Events))
	return nil
}

func main() {
	cli := &cli{}

	cmd := &cobra.Command{
		Use:               "wfnotify",
		Short:             "Workflow transition email notifications",
		PersistentPreRunE: cli.setupConfig,
		RunE:              cli.run,
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the http server",
		RunE:  cli.run,
	}

	historyCmd := &cobra.Command{
		Use:   "history <item-id>",
		Short: "Print the workflow history of an item version",
		Args:  cobra.ExactArgs(1),
		RunE:  cli.history,
	}
	historyCmd.Flags().String("la", "en", "item language")
	historyCmd.Flags().Int("v", 1, "item version")
	historyCmd.Flags().String("action", "", "append the pending transition of this email action")
	historyCmd.Flags().String("actor", "", "user performing the pending transition")
	historyCmd.Flags().String("comment", "", "comment of the pending transition")

	loadCmd := &cobra.Command{
		Use:   "load [fixture.json]",
		Short: "Import workflows, actions, items, users and events; without a file the sample data is loaded",
		Args:  cobra.MaximumNArgs(1),
		RunE:  cli.load,
	}

	cmd.AddCommand(serveCmd, historyCmd, loadCmd)

	if err := setupFlags(cmd); err != nil {
		log.Fatal(err)
	}

	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
