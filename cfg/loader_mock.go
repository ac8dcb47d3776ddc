package cfg

type MockLoader struct {
	ApiUrl string
	Server string
}

// NewMockLoader returns a loader pointing the source platform and the receiving system at the given addresses.
func NewMockLoader(apiUrl, server string) (*MockLoader, error) {
	return &MockLoader{ApiUrl: apiUrl, Server: server}, nil
}

func (ml *MockLoader) Load() (*Config, error) {
	config := &Config{
		// App
		App: App{
			Name:      "github-gsa-feed",
			Version:   "0.0.1",
			LogFormat: LogFormatConsole,
			LogLevel:  "debug",
		},

		// Mysql
		Mysql: Mysql{
			Enabled:               false,
			Host:                  "127.0.0.1",
			Password:              "root",
			Username:              "root",
			Port:                  "3306",
			Database:              "github_gsa_feed",
			MaxIdleConnection:     10,
			MaxOpenConnection:     100,
			MaxLifeTimeConnection: 3600,
		},

		// GithubApi
		GithubApi: GithubApi{
			AccessToken:       "",
			ApiUrl:            ml.ApiUrl,
			PerPage:           100,
			RequestsPerSecond: 1000,
			Timeout:           5,
			MaxPages:          50,
		},

		// Gsa
		Gsa: Gsa{
			Server:     ml.Server,
			Datasource: "github",
			Port:       19900,
			FeedPath:   "/xmlfeed",
			Timeout:    5,
		},

		Output: Output{
			Mode: OutputConsole,
			Dir:  ".",
		},

		Kafka: Kafka{
			Brokers: []string{"127.0.0.1:9092"},
			Topic:   "gsa-feeds",
			GroupID: "gsa-feed-relay",
		},
	}
	config.ApplyDefaults()
	return config, nil
}
