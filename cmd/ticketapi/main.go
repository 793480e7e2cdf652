package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	flag "github.com/spf13/pflag"

	"github.com/simpleauthlink/appticket/api"
	"github.com/simpleauthlink/appticket/db"
	"github.com/simpleauthlink/appticket/db/badger"
	"github.com/simpleauthlink/appticket/db/mongo"
	"github.com/simpleauthlink/appticket/email"
	"github.com/simpleauthlink/appticket/helpers"
)

const (
	defaultHost           = "0.0.0.0"
	defaultPort           = 8080
	defaultEnvFile        = ".env"
	defaultDBDriver       = "badger"
	defaultDataPath       = "./.data"
	defaultDatabaseURI    = "mongodb://localhost:27017"
	defaultDatabaseName   = "appticket"
	defaultEmailPort      = 587
	defaultAuditRetention = 7 * 24 * time.Hour

	tempDriver   = "temp"
	badgerDriver = "badger"
	mongoDriver  = "mongo"

	envFileFlag        = "env-file"
	hostFlag           = "host"
	portFlag           = "port"
	masterSecretFlag   = "master-secret"
	adminKeyFlag       = "admin-key"
	timeWindowFlag     = "time-window"
	dbDriverFlag       = "db-driver"
	dataPathFlag       = "data-path"
	dbURIFlag          = "db-uri"
	dbNameFlag         = "db-name"
	emailAddrFlag      = "email-addr"
	emailPassFlag      = "email-pass"
	emailHostFlag      = "email-host"
	emailPortFlag      = "email-port"
	auditRetentionFlag = "audit-retention"

	envFileFlagDesc        = "path to an optional env file"
	hostFlagDesc           = "service host"
	portFlagDesc           = "service port"
	masterSecretFlagDesc   = "master secret used to derive the app secrets"
	adminKeyFlagDesc       = "key required by the admin endpoints"
	timeWindowFlagDesc     = "max time window of valid tickets"
	dbDriverFlagDesc       = "database driver (temp, badger or mongo)"
	dataPathFlagDesc       = "data path of the badger database"
	dbURIFlagDesc          = "mongo database uri"
	dbNameFlagDesc         = "mongo database name"
	emailAddrFlagDesc      = "email account address"
	emailPassFlagDesc      = "email account password"
	emailHostFlagDesc      = "email server host"
	emailPortFlagDesc      = "email server port"
	auditRetentionFlagDesc = "time the audit records are kept, 0 keeps them forever"

	hostEnv           = "APPTICKET_HOST"
	portEnv           = "APPTICKET_PORT"
	masterSecretEnv   = "APPTICKET_MASTER_SECRET"
	adminKeyEnv       = "APPTICKET_ADMIN_KEY"
	timeWindowEnv     = "APPTICKET_TIME_WINDOW"
	dbDriverEnv       = "APPTICKET_DB_DRIVER"
	dataPathEnv       = "APPTICKET_DATA_PATH"
	dbURIEnv          = "APPTICKET_DB_URI"
	dbNameEnv         = "APPTICKET_DB_NAME"
	emailAddrEnv      = "APPTICKET_EMAIL_ADDR"
	emailPassEnv      = "APPTICKET_EMAIL_PASS"
	emailHostEnv      = "APPTICKET_EMAIL_HOST"
	emailPortEnv      = "APPTICKET_EMAIL_PORT"
	auditRetentionEnv = "APPTICKET_AUDIT_RETENTION"
)

type config struct {
	host           string
	port           int
	masterSecret   string
	adminKey       string
	timeWindow     time.Duration
	dbDriver       string
	dataPath       string
	dbURI          string
	dbName         string
	emailAddr      string
	emailPass      string
	emailHost      string
	emailPort      int
	auditRetention time.Duration
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	c, err := parseConfig(os.Args[1:])
	if err != nil {
		log.Fatalln("ERR: error parsing config:", err)
	}
	database, err := initDB(c)
	if err != nil {
		log.Fatalln("ERR: error initializing db:", err)
	}
	// create the service
	service, err := api.New(context.Background(), database, &api.Config{
		EmailConfig: email.EmailConfig{
			Address:   c.emailAddr,
			Password:  c.emailPass,
			EmailHost: c.emailHost,
			EmailPort: c.emailPort,
		},
		Server:          c.host,
		ServerPort:      c.port,
		MasterSecret:    c.masterSecret,
		AdminKey:        c.adminKey,
		MaxTimeWindow:   c.timeWindow,
		AuditRetention:  c.auditRetention,
		CleanerCooldown: 30 * time.Minute,
	})
	if err != nil {
		log.Fatalln("ERR: error creating service:", err)
	}
	go func() {
		if err := service.Start(); err != nil {
			log.Fatalln("ERR: error running service:", err)
		}
	}()
	// wait for the service to finish
	service.WaitToShutdown()
}

// initDB creates and initializes the database driver selected in the config.
func initDB(c *config) (db.DB, error) {
	var database db.DB
	var dbConfig any
	switch c.dbDriver {
	case tempDriver:
		database = new(db.TempDriver)
	case badgerDriver:
		database = new(badger.BadgerDriver)
		dbConfig = c.dataPath
	case mongoDriver:
		database = new(mongo.MongoDriver)
		dbConfig = mongo.Config{
			MongoURI: c.dbURI,
			Database: c.dbName,
		}
	default:
		return nil, fmt.Errorf("unknown database driver: %s", c.dbDriver)
	}
	if err := database.Init(dbConfig); err != nil {
		return nil, err
	}
	log.Printf("using %s database driver", c.dbDriver)
	return database, nil
}

func parseConfig(args []string) (*config, error) {
	flags := flag.NewFlagSet("ticketapi", flag.ContinueOnError)
	var envFile string
	c := &config{}
	// get config from flags
	flags.StringVar(&envFile, envFileFlag, defaultEnvFile, envFileFlagDesc)
	flags.StringVar(&c.host, hostFlag, defaultHost, hostFlagDesc)
	flags.IntVar(&c.port, portFlag, defaultPort, portFlagDesc)
	flags.StringVar(&c.masterSecret, masterSecretFlag, "", masterSecretFlagDesc)
	flags.StringVar(&c.adminKey, adminKeyFlag, "", adminKeyFlagDesc)
	flags.DurationVar(&c.timeWindow, timeWindowFlag, helpers.DefaultMaxTimeWindow, timeWindowFlagDesc)
	flags.StringVar(&c.dbDriver, dbDriverFlag, defaultDBDriver, dbDriverFlagDesc)
	flags.StringVar(&c.dataPath, dataPathFlag, defaultDataPath, dataPathFlagDesc)
	flags.StringVar(&c.dbURI, dbURIFlag, defaultDatabaseURI, dbURIFlagDesc)
	flags.StringVar(&c.dbName, dbNameFlag, defaultDatabaseName, dbNameFlagDesc)
	flags.StringVar(&c.emailAddr, emailAddrFlag, "", emailAddrFlagDesc)
	flags.StringVar(&c.emailPass, emailPassFlag, "", emailPassFlagDesc)
	flags.StringVar(&c.emailHost, emailHostFlag, "", emailHostFlagDesc)
	flags.IntVar(&c.emailPort, emailPortFlag, defaultEmailPort, emailPortFlagDesc)
	flags.DurationVar(&c.auditRetention, auditRetentionFlag, defaultAuditRetention, auditRetentionFlagDesc)
	if err := flags.Parse(args); err != nil {
		return nil, err
	}
	// load the env file if it exists, it does not override the variables
	// already defined in the environment
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading env file: %w", err)
	}
	// if some flags are not set, set them by env
	envStrings := map[string]*string{
		hostFlag:         &c.host,
		masterSecretFlag: &c.masterSecret,
		adminKeyFlag:     &c.adminKey,
		dbDriverFlag:     &c.dbDriver,
		dataPathFlag:     &c.dataPath,
		dbURIFlag:        &c.dbURI,
		dbNameFlag:       &c.dbName,
		emailAddrFlag:    &c.emailAddr,
		emailPassFlag:    &c.emailPass,
		emailHostFlag:    &c.emailHost,
	}
	envNames := map[string]string{
		hostFlag:         hostEnv,
		masterSecretFlag: masterSecretEnv,
		adminKeyFlag:     adminKeyEnv,
		dbDriverFlag:     dbDriverEnv,
		dataPathFlag:     dataPathEnv,
		dbURIFlag:        dbURIEnv,
		dbNameFlag:       dbNameEnv,
		emailAddrFlag:    emailAddrEnv,
		emailPassFlag:    emailPassEnv,
		emailHostFlag:    emailHostEnv,
	}
	for name, value := range envStrings {
		if env := os.Getenv(envNames[name]); env != "" && !flags.Changed(name) {
			*value = env
		}
	}
	if env := os.Getenv(portEnv); env != "" && !flags.Changed(portFlag) {
		port, err := strconv.Atoi(env)
		if err != nil {
			return nil, fmt.Errorf("invalid port value: %s", env)
		}
		c.port = port
	}
	if env := os.Getenv(emailPortEnv); env != "" && !flags.Changed(emailPortFlag) {
		port, err := strconv.Atoi(env)
		if err != nil {
			return nil, fmt.Errorf("invalid email port value: %s", env)
		}
		c.emailPort = port
	}
	if env := os.Getenv(timeWindowEnv); env != "" && !flags.Changed(timeWindowFlag) {
		window, err := time.ParseDuration(env)
		if err != nil {
			return nil, fmt.Errorf("invalid time window value: %s", env)
		}
		c.timeWindow = window
	}
	if env := os.Getenv(auditRetentionEnv); env != "" && !flags.Changed(auditRetentionFlag) {
		retention, err := time.ParseDuration(env)
		if err != nil {
			return nil, fmt.Errorf("invalid audit retention value: %s", env)
		}
		c.auditRetention = retention
	}
	// check if the required values are set
	if c.masterSecret == "" {
		return nil, fmt.Errorf("master secret is required, use --%s or set %s env var", masterSecretFlag, masterSecretEnv)
	}
	if c.adminKey == "" {
		return nil, fmt.Errorf("admin key is required, use --%s or set %s env var", adminKeyFlag, adminKeyEnv)
	}
	if c.timeWindow <= 0 {
		return nil, fmt.Errorf("time window must be positive, got %s", c.timeWindow)
	}
	return c, nil
}
