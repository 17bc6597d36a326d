package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/fx"
)

// Config holds all configuration from environment variables.
type Config struct {
	Token string `envconfig:"TELEGRAM_API_TOKEN" required:"true"`

	// Primary text-generation provider. An empty key disables it.
	OpenAIAPIKey  string `envconfig:"OPENAI_API_KEY"`
	OpenAIBaseURL string `envconfig:"OPENAI_BASE_URL" default:"https://api.openai.com/v1"`
	OpenAIModel   string `envconfig:"OPENAI_MODEL" default:"gpt-3.5-turbo"`

	// Secondary text-generation provider. An empty key disables it.
	GeminiAPIKey string `envconfig:"GEMINI_API_KEY"`
	GeminiModel  string `envconfig:"GEMINI_MODEL" default:"gemini-pro"`

	// Music search
	RadioJavanAccessKey string        `envconfig:"RADIO_JAVAN_ACCESS_KEY"`
	RadioJavanURL       string        `envconfig:"RADIO_JAVAN_URL" default:"https://api.ineo-team.ir/rj.php"`
	SearchTimeout       time.Duration `envconfig:"SEARCH_TIMEOUT" default:"10s"`

	// HTTPAddr enables the HTTP API when set, e.g. ":8080".
	HTTPAddr string `envconfig:"HTTP_ADDR" default:""`

	// Path to config.toml file
	ConfigFile string `envconfig:"CONFIG_FILE" default:"config.toml"`

	// Prompts loaded from config.toml
	Prompts Prompts

	// Fallback messages loaded from config.toml
	Messages Messages
}

// Prompts holds the prompts sent to the text-generation providers.
type Prompts struct {
	Reply string `toml:"reply"`
	// ReplySecondary is the single-turn reply template for the secondary
	// provider; {message} is replaced with the user's message.
	ReplySecondary string `toml:"reply_secondary"`
	JokeSystem     string `toml:"joke_system"`
	JokeUser       string `toml:"joke_user"`
	Support        string `toml:"support"`
}

// Messages holds the user-facing strings returned when no provider answers.
type Messages struct {
	Apology    string   `toml:"apology"`
	Jokes      []string `toml:"jokes"`
	Supportive []string `toml:"supportive"`

	// JokeTemplate decorates a generated joke; {joke} is replaced with it.
	JokeTemplate string `toml:"joke_template"`

	SearchHeader     string `toml:"search_header"`
	SearchEmpty      string `toml:"search_empty"`
	SearchFailed     string `toml:"search_failed"`
	SearchTimeout    string `toml:"search_timeout"`
	SearchRequest    string `toml:"search_request"`
	SearchUnexpected string `toml:"search_unexpected"`
	Unknown          string `toml:"unknown"`
}

// FileConfig represents the structure of config.toml.
type FileConfig struct {
	Prompts  Prompts  `toml:"prompts"`
	Messages Messages `toml:"fallback"`
}

// DefaultPrompts provides fallback prompts if config.toml is not found.
var DefaultPrompts = Prompts{
	Reply:          "تو یک دستیار مهربان و دوستانه هستی که با لحن صمیمی و به فارسی پاسخ می‌دهی. اگر نام کاربر بهنوش است، با 'بهنوش جان' خطابش کن.",
	ReplySecondary: "کاربر: {message}\nربات (با لحن مهربان و دوستانه، به فارسی و با خطاب 'بهنوش جان' اگر نام کاربر بهنوش است):",
	JokeSystem:     "یک جوک کوتاه و بامزه به فارسی بگو",
	JokeUser:       "یه جوک بگو",
	Support:        "یک پیام کوتاه، مثبت و امیدبخش به فارسی برای کسی که کمی ناراحت است، با خطاب 'بهنوش جان' بنویس:",
}

// DefaultMessages provides the built-in fallback content.
var DefaultMessages = Messages{
	Apology: "بهنوش جان، متاسفانه الان نمی‌تونم بهت پاسخ بدم. یه مشکل کوچیک پیش اومده. 😔",
	Jokes: []string{
		"چرا کامپیوتر آهسته کار می‌کرد؟ چون رم کامپیوتر خوابش میومد! 💻😴",
		"آقا یه تمساح چطوری تابستون رو می‌گذرونه؟ با کولر کروکودیلی! 🐊❄️",
		"می‌دونی چرا دانشجوها ساندویچ دوست دارند؟ چون یه روز یه استاد گفت: هر کی تکلیفش رو نده ساندویچ میشه! 🥪📚",
		"بهنوش جان، می‌دونی چرا لک‌لک‌ها موقع خواب یه پاشون رو بالا نگه می‌دارن؟ چون اگه هر دو پاشون رو بذارن زمین، می‌افتن! 😂🦩",
	},
	Supportive: []string{
		"تو خیلی قوی‌تر از این حرفایی! می‌دونم می‌تونی از پس هر چیزی بربیای. 💪",
		"بدونی که هر روز یه قدم به بهتر شدن نزدیک‌تر میشی؟ من همیشه اینجا هستم برات. 🌟",
		"زندگی مثل یه جعبه شکلاته، شاید بعضی مواقع مزه‌اش رو نفهمی اما هنوز شکلات‌های خوشمزه زیادی مونده! 🍫",
		"یادت باشه بهنوش جان، بعد از هر سختی، آسانی هست. من بهت ایمان دارم! 💖",
		"بهنوش عزیزم، لبخند تو قشنگ‌ترین چیزیه که می‌تونم ببینم. امیدوارم زودتر حالت خوب بشه. 😊",
	},
	JokeTemplate:     "بهنوش جان، {joke} 😄",
	SearchHeader:     "🎵 نتایج جستجو:",
	SearchEmpty:      "بهنوش جان، متاسفانه هیچ نتیجه‌ای پیدا نشد. 🎵",
	SearchFailed:     "بهنوش جان، متاسفانه در جستجو مشکلی پیش آمده است.",
	SearchTimeout:    "بهنوش جان، جستجو خیلی طول کشید. لطفا دوباره امتحان کن.",
	SearchRequest:    "بهنوش جان، متاسفانه در حال حاضر نمی‌تونم بهت کمک کنم. لطفا بعدا امتحان کن.",
	SearchUnexpected: "بهنوش جان، یه خطای غیرمنتظره رخ داده. لطفا دوباره تلاش کن.",
	Unknown:          "نامشخص",
}

// LoadEnv loads the configuration from environment variables.
func (c Config) LoadEnv() (Config, error) {
	cfg := c

	if err := envconfig.Process("", &cfg); err != nil {
		return c, err
	}

	return cfg, nil
}

// LoadFile loads prompts and messages from config.toml file.
func (c *Config) LoadFile() error {
	// Try to find config file
	configPath := c.ConfigFile
	if !filepath.IsAbs(configPath) {
		// Try current directory first
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			// Try executable directory
			execPath, err := os.Executable()
			if err == nil {
				execDir := filepath.Dir(execPath)
				configPath = filepath.Join(execDir, c.ConfigFile)
			}
		}
	}

	// Check if file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		c.Prompts = DefaultPrompts
		c.Messages = DefaultMessages
		return nil
	}

	var fileConfig FileConfig
	if _, err := toml.DecodeFile(configPath, &fileConfig); err != nil {
		return err
	}

	c.Prompts = fileConfig.Prompts.WithDefaults()
	c.Messages = fileConfig.Messages.WithDefaults()

	return nil
}

// WithDefaults fills empty prompts from DefaultPrompts.
func (p Prompts) WithDefaults() Prompts {
	p.Reply = or(p.Reply, DefaultPrompts.Reply)
	p.ReplySecondary = or(p.ReplySecondary, DefaultPrompts.ReplySecondary)
	p.JokeSystem = or(p.JokeSystem, DefaultPrompts.JokeSystem)
	p.JokeUser = or(p.JokeUser, DefaultPrompts.JokeUser)
	p.Support = or(p.Support, DefaultPrompts.Support)
	return p
}

// WithDefaults fills empty messages from DefaultMessages. Blank strings
// count as empty, and blank list items are dropped.
func (m Messages) WithDefaults() Messages {
	m.Apology = or(m.Apology, DefaultMessages.Apology)
	m.Jokes = orList(m.Jokes, DefaultMessages.Jokes)
	m.Supportive = orList(m.Supportive, DefaultMessages.Supportive)
	m.JokeTemplate = or(m.JokeTemplate, DefaultMessages.JokeTemplate)
	m.SearchHeader = or(m.SearchHeader, DefaultMessages.SearchHeader)
	m.SearchEmpty = or(m.SearchEmpty, DefaultMessages.SearchEmpty)
	m.SearchFailed = or(m.SearchFailed, DefaultMessages.SearchFailed)
	m.SearchTimeout = or(m.SearchTimeout, DefaultMessages.SearchTimeout)
	m.SearchRequest = or(m.SearchRequest, DefaultMessages.SearchRequest)
	m.SearchUnexpected = or(m.SearchUnexpected, DefaultMessages.SearchUnexpected)
	m.Unknown = or(m.Unknown, DefaultMessages.Unknown)
	return m
}

func or(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func orList(items, def []string) []string {
	var out []string
	for _, item := range items {
		if strings.TrimSpace(item) != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

func NewConfig() (*Config, error) {
	var cfg Config
	loadedCfg, err := cfg.LoadEnv()
	if err != nil {
		return nil, err
	}

	// Load prompts and messages from config.toml
	if err := loadedCfg.LoadFile(); err != nil {
		return nil, err
	}

	return &loadedCfg, nil
}

func Module() fx.Option {
	return fx.Module(
		"config",
		fx.Provide(
			NewConfig,
		),
	)
}
