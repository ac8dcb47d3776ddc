package cfg

type (
	App struct {
		Name        string
		Version     string
		LogFormat   string
		LogLevel    string
		WatchConfig bool
	}

	Mysql struct {
		Enabled               bool
		Host                  string
		Port                  string
		Username              string
		Password              string
		Database              string
		MaxIdleConnection     int
		MaxOpenConnection     int
		MaxLifeTimeConnection int
	}

	// GithubApi.ApiUrl is the base address of the source platform, always ending with "/".
	GithubApi struct {
		AccessToken       string
		ApiUrl            string
		PerPage           int
		RequestsPerSecond int
		Timeout           int
		MaxPages          int
	}

	Gsa struct {
		Server     string
		Datasource string
		Port       int
		FeedPath   string
		Timeout    int
	}

	Output struct {
		Mode   string
		Dir    string
		Pretty bool
	}

	Kafka struct {
		Brokers []string
		Topic   string
		GroupID string
	}
)

type Config struct {
	App       App
	Mysql     Mysql
	GithubApi GithubApi
	Gsa       Gsa
	Output    Output
	Kafka     Kafka
}

// Output modes.
const (
	OutputGsa     = "gsa"
	OutputFile    = "file"
	OutputConsole = "console"
	OutputKafka   = "kafka"
)

// Log formats.
const (
	LogFormatConsole = "console"
	LogFormatLogrus  = "logrus"
)

// ApplyDefaults fills zero values with the values the tool runs with out of the box.
func (c *Config) ApplyDefaults() {
	if c.App.Name == "" {
		c.App.Name = "github-gsa-feed"
	}
	if c.App.LogFormat == "" {
		c.App.LogFormat = LogFormatConsole
	}
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}
	if c.GithubApi.PerPage <= 0 || c.GithubApi.PerPage > 100 {
		// GitHub never returns more than 100 elements per page
		c.GithubApi.PerPage = 100
	}
	if c.GithubApi.RequestsPerSecond <= 0 {
		c.GithubApi.RequestsPerSecond = 10
	}
	if c.GithubApi.Timeout <= 0 {
		c.GithubApi.Timeout = 30
	}
	if c.GithubApi.MaxPages <= 0 {
		c.GithubApi.MaxPages = 10000
	}
	if c.Gsa.Port <= 0 {
		c.Gsa.Port = 19900
	}
	if c.Gsa.FeedPath == "" {
		c.Gsa.FeedPath = "/xmlfeed"
	}
	if c.Gsa.Timeout <= 0 {
		c.Gsa.Timeout = 60
	}
	if c.Output.Mode == "" {
		c.Output.Mode = OutputGsa
	}
	if c.Output.Dir == "" {
		c.Output.Dir = "."
	}
	if c.Kafka.Topic == "" {
		c.Kafka.Topic = "gsa-feeds"
	}
	if c.Kafka.GroupID == "" {
		c.Kafka.GroupID = "gsa-feed-relay"
	}
}
