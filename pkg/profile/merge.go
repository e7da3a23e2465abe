package profile

// MergeWithDefaults combines a stored or caller-supplied agent config with a
// freshly built default profile. List sections become the ordered union of
// defaults then caller entries, deduplicated by first occurrence; the server
// catalog merges by id with caller entries overriding built-ins entirely;
// plain object sections merge shallowly with caller keys winning. Unknown
// top-level keys in the caller config pass through untouched, and the merged
// lists are mirrored at the top level under the legacy aliases (skills,
// mcpTools, mcpServers).
func MergeWithDefaults(config map[string]any, baseURL string) map[string]any {
	defaults := DefaultOperatingProfile(baseURL)
	current := asRecord(config)
	currentProfile := asRecord(current["operatingProfile"])

	currentIntegrations := asRecord(firstRecord(currentProfile["integrations"], current["integrations"]))
	currentInternet := asRecord(firstRecord(currentProfile["internet"], current["internet"]))
	currentMCP := asRecord(currentProfile["mcp"])
	currentBridge := asRecord(currentProfile["automationBridge"])
	currentAuto := asRecord(currentProfile["autoEnhancement"])

	currentSkills := asStringList(firstValue(currentProfile["skills"], current["skills"]), 128)
	currentTools := asStringList(firstValue(currentMCP["defaultTools"], current["mcpTools"]), 256)
	currentActions := asStringList(currentBridge["actions"], 128)
	currentSources := asStringList(currentAuto["sources"], 128)

	mergedSkills := unionStrings(DefaultSkills, currentSkills)
	mergedTools := unionStrings(DefaultMCPTools, currentTools)
	mergedActions := unionStrings(BridgeActions, currentActions)
	mergedSources := unionStrings(AutoEnhancementSources, currentSources)
	mergedServers := mergeServers(DefaultServerMaps(), asRecordList(currentMCP["servers"]))

	mergedIntegrations := shallowMerge(asRecord(defaults["integrations"]), currentIntegrations)
	mergedInternet := shallowMerge(asRecord(defaults["internet"]), currentInternet)

	mergedProfile := shallowMerge(defaults, currentProfile)
	mergedProfile["integrations"] = mergedIntegrations
	mergedProfile["internet"] = mergedInternet
	mergedProfile["skills"] = mergedSkills
	mergedProfile["mcp"] = func() map[string]any {
		mcp := shallowMerge(asRecord(defaults["mcp"]), currentMCP)
		mcp["defaultTools"] = mergedTools
		mcp["servers"] = mergedServers
		return mcp
	}()
	mergedProfile["automationBridge"] = func() map[string]any {
		bridge := shallowMerge(asRecord(defaults["automationBridge"]), currentBridge)
		bridge["actions"] = mergedActions
		return bridge
	}()
	mergedProfile["autoEnhancement"] = func() map[string]any {
		auto := shallowMerge(asRecord(defaults["autoEnhancement"]), currentAuto)
		auto["sources"] = mergedSources
		return auto
	}()

	result := make(map[string]any, len(current)+6)
	for key, value := range current {
		result[key] = value
	}
	result["operatingProfile"] = mergedProfile
	result["integrations"] = mergedIntegrations
	result["internet"] = mergedInternet
	result["skills"] = mergedSkills
	result["mcpTools"] = mergedTools
	result["mcpServers"] = mergedServers

	return result
}

// unionStrings returns defaults in canonical order followed by extra entries
// not already present, deduplicated by first occurrence.
func unionStrings(defaults []string, extras []string) []string {
	seen := make(map[string]struct{}, len(defaults)+len(extras))
	out := make([]string, 0, len(defaults)+len(extras))
	for _, lists := range [][]string{defaults, extras} {
		for _, entry := range lists {
			if _, ok := seen[entry]; ok {
				continue
			}
			seen[entry] = struct{}{}
			out = append(out, entry)
		}
	}
	return out
}

// mergeServers merges the server catalog by id. A caller server sharing an id
// with a built-in replaces it entirely; the output keeps catalog order for
// built-ins, then appends caller servers with new ids in their given order.
func mergeServers(defaults []map[string]any, extras []map[string]any) []map[string]any {
	overrides := make(map[string]map[string]any, len(extras))
	var appended []map[string]any
	known := make(map[string]struct{}, len(defaults))
	for _, server := range defaults {
		if id := asString(server["id"]); id != "" {
			known[id] = struct{}{}
		}
	}
	for _, server := range extras {
		id := asString(server["id"])
		if id == "" {
			continue
		}
		if _, ok := known[id]; ok {
			overrides[id] = server
		} else if _, dup := overrides[id]; !dup {
			overrides[id] = server
			appended = append(appended, server)
		} else {
			// Later caller entries with a repeated id win, in place.
			overrides[id] = server
		}
	}

	out := make([]map[string]any, 0, len(defaults)+len(appended))
	for _, server := range defaults {
		id := asString(server["id"])
		if override, ok := overrides[id]; ok {
			out = append(out, override)
			continue
		}
		out = append(out, server)
	}
	for _, server := range appended {
		out = append(out, overrides[asString(server["id"])])
	}
	return out
}

func shallowMerge(base map[string]any, override map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(override))
	for key, value := range base {
		out[key] = value
	}
	for key, value := range override {
		out[key] = value
	}
	return out
}

func asRecord(value any) map[string]any {
	if m, ok := value.(map[string]any); ok {
		return m
	}
	return map[string]any{}
}

func asRecordList(value any) []map[string]any {
	var out []map[string]any
	switch list := value.(type) {
	case []map[string]any:
		return list
	case []any:
		for _, entry := range list {
			if m, ok := entry.(map[string]any); ok {
				out = append(out, m)
			}
		}
	}
	return out
}

func asString(value any) string {
	if s, ok := value.(string); ok {
		return s
	}
	return ""
}

func asStringList(value any, maxItems int) []string {
	var out []string
	appendEntry := func(entry string) {
		if entry == "" || len(out) >= maxItems {
			return
		}
		out = append(out, entry)
	}
	switch list := value.(type) {
	case []string:
		for _, entry := range list {
			appendEntry(entry)
		}
	case []any:
		for _, entry := range list {
			appendEntry(asString(entry))
		}
	}
	return out
}

func firstRecord(values ...any) any {
	for _, value := range values {
		if _, ok := value.(map[string]any); ok {
			return value
		}
	}
	return nil
}

func firstValue(values ...any) any {
	for _, value := range values {
		if value != nil {
			return value
		}
	}
	return nil
}
