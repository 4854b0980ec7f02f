package config

import (
	"github.com/pelletier/go-toml/v2"
)

// Starter returns a system.toml skeleton with one example per section,
// serialized as TOML. Used by the init command so new users get a file
// worth editing instead of a blank page.
func Starter() ([]byte, error) {
	starter := map[string]interface{}{
		"brew": map[string]interface{}{
			"formulae": []string{"ripgrep", "jq"},
			"casks":    []string{"kitty"},
		},
		"mas": map[string]interface{}{
			"apps": []map[string]string{
				{"name": "Amphetamine", "id": "937984704"},
			},
		},
		"dotfiles": map[string]interface{}{
			"files": []interface{}{
				".vimrc",
				map[string]string{"original": "zsh/zshrc", "link": "~/.zshrc"},
			},
		},
		"vscode": map[string]interface{}{
			"extensions": []string{"golang.go"},
		},
		"macos": map[string]interface{}{
			"dock": map[string]interface{}{
				"orientation": "left",
				"autohide":    true,
				"icon-size":   48,
			},
			"finder": map[string]interface{}{
				"show-pathbar": true,
			},
		},
	}

	return toml.Marshal(starter)
}
