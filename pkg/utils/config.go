package utils

import "os"

type GuideConfig struct {
	Addr         string
	DataPath     string
	GameInfoPath string
}

func LoadGuideConfig() GuideConfig {
	addr := os.Getenv("POE2GUIDE_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	dataPath := os.Getenv("POE2GUIDE_DATA_PATH")
	if dataPath == "" {
		dataPath = "data/poe2_master_db.json"
	}

	gameInfoPath := os.Getenv("POE2GUIDE_GAMEINFO_PATH")
	if gameInfoPath == "" {
		gameInfoPath = "public/poe2-game-info.json"
	}

	return GuideConfig{
		Addr:         addr,
		DataPath:     dataPath,
		GameInfoPath: gameInfoPath,
	}
}
