package remotetest

// Profile returns a complete profile payload; overrides replace top-level keys
func Profile(userID, alias string, overrides map[string]any) map[string]any {
	p := map[string]any{
		"user_id":                  userID,
		"alias":                    alias,
		"geo":                      map[string]any{"lat": "-6.2", "lng": 106.8},
		"bio":                      "",
		"gender":                   "FEMALE",
		"looking_for":              "MALE",
		"relationship_preferences": "Serious",
		"education_level":          "Bachelor''s Degree",
		"drinking":                 "Never",
		"smoking":                  "Never",
		"zodiac":                   "Leo",
		"height":                   165,
		"kids":                     nil,
		"work":                     "Engineer",
		"profile_picture_urls":     []string{},
		"hobbies":                  []any{},
		"movie_series":             []any{},
		"sports":                   []any{},
		"travels":                  []any{},
	}
	for k, v := range overrides {
		p[k] = v
	}
	return p
}

// Match returns a match entry for matchID with status
func Match(matchID, status string) map[string]any {
	m := Profile("user-"+matchID, "alias-"+matchID, nil)
	m["id"] = matchID
	m["distance"] = "1.5"
	if status != "" {
		m["status"] = status
	}
	return m
}

// Page wraps entries in a page envelope without further pages
func Page(entries ...any) map[string]any {
	if entries == nil {
		entries = []any{}
	}
	return map[string]any{
		"metadata": map[string]any{"prev": nil, "next": nil},
		"data":     entries,
	}
}
