package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/drsdgdbye/user-panel/config"
	"github.com/drsdgdbye/user-panel/database"
	"github.com/drsdgdbye/user-panel/logger"
	"github.com/drsdgdbye/user-panel/web"
	"github.com/drsdgdbye/user-panel/web/service"

	"github.com/joho/godotenv"
	"github.com/op/go-logging"
	"github.com/spf13/cobra"
)

func initLogger() {
	switch config.GetLogLevel() {
	case config.Debug:
		logger.InitLogger(logging.DEBUG)
	case config.Info:
		logger.InitLogger(logging.INFO)
	case config.Notice:
		logger.InitLogger(logging.NOTICE)
	case config.Warn:
		logger.InitLogger(logging.WARNING)
	case config.Error:
		logger.InitLogger(logging.ERROR)
	default:
		log.Fatal("unknown log level:", config.GetLogLevel())
	}
}

func loadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	return cfg
}

func openDB(cfg *config.Config) {
	if err := database.InitDB(&cfg.Database); err != nil {
		log.Fatal(err)
	}
}

func runWebServer() {
	log.Printf("%v %v", config.GetName(), config.GetVersion())

	initLogger()
	defer logger.CloseLogger()

	cfg := loadConfig()
	logger.Info("starting with", cfg)
	openDB(cfg)
	defer func() {
		if err := database.CloseDB(); err != nil {
			logger.Warning("close database err:", err)
		}
	}()

	server := web.NewServer(cfg)
	if err := server.Start(); err != nil {
		log.Println(err)
		return
	}

	sigCh := make(chan os.Signal, 1)
	// Trap shutdown signals
	signal.Notify(sigCh, syscall.SIGHUP, syscall.SIGTERM, syscall.SIGINT)
	for {
		sig := <-sigCh

		switch sig {
		case syscall.SIGHUP:
			logger.Info("received SIGHUP, restarting web server")
			if err := server.Stop(); err != nil {
				logger.Warning("stop server err:", err)
			}
			// Listener and rate limit settings are reloaded; the store stays open.
			if reloaded, err := config.Load(); err != nil {
				logger.Warning("reload config err, keeping previous:", err)
			} else {
				reloaded.Database = cfg.Database
				cfg = reloaded
			}
			server = web.NewServer(cfg)
			if err := server.Start(); err != nil {
				log.Println(err)
				return
			}
		default:
			logger.Infof("received %v, shutting down", sig)
			if err := server.Stop(); err != nil {
				logger.Warning("stop server err:", err)
			}
			return
		}
	}
}

func migrateDb() {
	cfg := loadConfig()
	fmt.Println("Start migrating database...")
	openDB(cfg)
	defer database.CloseDB()
	fmt.Println("Migration done!")
}

func showSetting() {
	fmt.Println("current panel settings as follows:")
	fmt.Println(loadConfig())
}

func listRoles() {
	openDB(loadConfig())
	defer database.CloseDB()

	roles, err := service.NewRoleService(database.GetDB()).ListRoles(context.Background())
	if err != nil {
		fmt.Println("list roles failed:", err)
		return
	}
	for _, r := range roles {
		fmt.Printf("%d\t%s\n", r.Id, r.Name)
	}
}

func addRole(name string) {
	openDB(loadConfig())
	defer database.CloseDB()

	role, err := service.NewRoleService(database.GetDB()).AddRole(context.Background(), name)
	if err != nil {
		fmt.Println("add role failed:", err)
		os.Exit(1)
	}
	fmt.Printf("add role %s success, id %d\n", role.Name, role.Id)
}

func main() {
	// .env is optional; real environment variables take precedence.
	_ = godotenv.Load()

	var rootCmd = &cobra.Command{
		Use:     config.GetName(),
		Short:   "User management REST service",
		Version: config.GetVersion(),
		Run: func(cmd *cobra.Command, args []string) {
			runWebServer()
		},
	}

	var runCmd = &cobra.Command{
		Use:   "run",
		Short: "Run the web server",
		Run: func(cmd *cobra.Command, args []string) {
			runWebServer()
		},
	}

	var migrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the schema and seed default roles",
		Run: func(cmd *cobra.Command, args []string) {
			migrateDb()
		},
	}

	var settingCmd = &cobra.Command{
		Use:   "setting",
		Short: "Show current settings",
		Run: func(cmd *cobra.Command, args []string) {
			showSetting()
		},
	}

	var roleCmd = &cobra.Command{
		Use:   "role",
		Short: "Manage roles",
	}

	var roleListCmd = &cobra.Command{
		Use:   "list",
		Short: "List roles",
		Run: func(cmd *cobra.Command, args []string) {
			listRoles()
		},
	}

	var roleAddCmd = &cobra.Command{
		Use:   "add <name>",
		Short: "Add a role",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			addRole(args[0])
		},
	}

	roleCmd.AddCommand(roleListCmd, roleAddCmd)
	rootCmd.AddCommand(runCmd, migrateCmd, settingCmd, roleCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
