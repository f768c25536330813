package geocode

import "strings"

// GazetteerEntry is a fixed location for a historically significant place
type GazetteerEntry struct {
	Latitude     float64
	Longitude    float64
	DisplayName  string
	LocationType string
}

// gazetteer overrides the external service for places whose modern
// geocoding would not match their historical identity. Keys are normalized.
var gazetteer = map[string]GazetteerEntry{
	// Major historical cities
	"delhi":     {28.6139, 77.2090, "Delhi, India", "city"},
	"agra":      {27.1767, 78.0081, "Agra, India", "city"},
	"lahore":    {31.5497, 74.3436, "Lahore, Pakistan", "city"},
	"dhaka":     {23.8103, 90.4125, "Dhaka, Bangladesh", "city"},
	"kabul":     {34.5553, 69.2075, "Kabul, Afghanistan", "city"},
	"mumbai":    {19.0760, 72.8777, "Mumbai, India", "city"},
	"bombay":    {19.0760, 72.8777, "Bombay (Mumbai), India", "city"},
	"calcutta":  {22.5726, 88.3639, "Calcutta (Kolkata), India", "city"},
	"kolkata":   {22.5726, 88.3639, "Kolkata, India", "city"},
	"madras":    {13.0827, 80.2707, "Madras (Chennai), India", "city"},
	"chennai":   {13.0827, 80.2707, "Chennai, India", "city"},
	"hyderabad": {17.3850, 78.4867, "Hyderabad, India", "city"},
	"karachi":   {24.8607, 67.0011, "Karachi, Pakistan", "city"},
	"peshawar":  {34.0151, 71.5249, "Peshawar, Pakistan", "city"},
	"amritsar":  {31.6340, 74.8723, "Amritsar, India", "city"},
	"lucknow":   {26.8467, 80.9462, "Lucknow, India", "city"},
	"jaipur":    {26.9124, 75.7873, "Jaipur, India", "city"},

	// Historical regions
	"punjab":    {31.1471, 75.3412, "Punjab Region", "region"},
	"bengal":    {23.6850, 90.3563, "Bengal Region", "region"},
	"deccan":    {18.1124, 79.0193, "Deccan Plateau", "region"},
	"kashmir":   {33.7782, 76.5762, "Kashmir", "region"},
	"sind":      {26.0000, 68.0000, "Sindh, Pakistan", "region"},
	"sindh":     {26.0000, 68.0000, "Sindh, Pakistan", "region"},
	"rajputana": {26.4499, 74.6399, "Rajputana (Rajasthan)", "region"},
	"oudh":      {26.8467, 80.9462, "Oudh (Awadh)", "region"},
	"awadh":     {26.8467, 80.9462, "Awadh", "region"},

	// Battle sites
	"panipat":    {29.3909, 76.9635, "Panipat, India", "battle_site"},
	"plassey":    {23.8000, 88.2500, "Plassey, India", "battle_site"},
	"buxar":      {25.5643, 83.9778, "Buxar, India", "battle_site"},
	"talikota":   {16.4800, 76.3100, "Talikota, India", "battle_site"},
	"haldighati": {24.8833, 73.6833, "Haldighati, India", "battle_site"},

	// Partition
	"radcliffe line": {31.0000, 74.0000, "Radcliffe Line (India-Pakistan border)", "border"},
	"wagah":          {31.6047, 74.5725, "Wagah Border", "border"},
}

// normalizeQuery is the key form shared by the gazetteer and the persistent cache
func normalizeQuery(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

// LookupGazetteer returns the fixed entry for a place name, matched case-insensitively
func LookupGazetteer(name string) (GazetteerEntry, bool) {
	entry, ok := gazetteer[normalizeQuery(name)]
	return entry, ok
}
