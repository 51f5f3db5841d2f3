package config

// mergeConfigs merges override configuration into base
func mergeConfigs(base, override *Config) *Config {
	result := *base

	if override.Version != "" {
		result.Version = override.Version
	}

	result.Session = mergeSession(result.Session, override.Session)
	result.Bridge = mergeBridge(result.Bridge, override.Bridge)

	if override.Extensions != nil {
		merged := make(map[string]interface{}, len(result.Extensions)+len(override.Extensions))
		for key, value := range result.Extensions {
			merged[key] = value
		}
		for key, value := range override.Extensions {
			// Same extension on both sides: merge one level deep
			if baseMap, ok := merged[key].(map[string]interface{}); ok {
				if overrideMap, ok := value.(map[string]interface{}); ok {
					mergedMap := make(map[string]interface{}, len(baseMap)+len(overrideMap))
					for k, v := range baseMap {
						mergedMap[k] = v
					}
					for k, v := range overrideMap {
						mergedMap[k] = v
					}
					merged[key] = mergedMap
					continue
				}
			}
			merged[key] = value
		}
		result.Extensions = merged
	}

	return &result
}

func mergeSession(base, override SessionConfig) SessionConfig {
	result := base

	if override.ID != "" {
		result.ID = override.ID
	}
	if override.Key != "" {
		result.Key = override.Key
	}
	if override.Watch {
		result.Watch = true
	}
	if override.DebounceMs > 0 {
		result.DebounceMs = override.DebounceMs
	}
	if override.Storage.Backend != "" {
		result.Storage.Backend = override.Storage.Backend
	}
	if override.Storage.Dir != "" {
		result.Storage.Dir = override.Storage.Dir
	}
	if override.Storage.Path != "" {
		result.Storage.Path = override.Storage.Path
	}

	return result
}

func mergeBridge(base, override BridgeConfig) BridgeConfig {
	result := base

	if override.Listen != "" {
		result.Listen = override.Listen
	}
	if override.URL != "" {
		result.URL = override.URL
	}
	if override.Origin != "" {
		result.Origin = override.Origin
	}
	if len(override.AllowedOrigins) > 0 {
		result.AllowedOrigins = override.AllowedOrigins
	}
	if override.SendBuffer > 0 {
		result.SendBuffer = override.SendBuffer
	}

	return result
}
