// Package factors provides the contextual adjustment layer of the
// projection engine: static pace and defense-vs-position ratings, key
// defender impact weights, and per-team star rosters used to detect
// usage boosts when a high-volume teammate sits.
package factors

// PositionClass is a normalized primary position
type PositionClass string

const (
	PointGuard    PositionClass = "PG"
	ShootingGuard PositionClass = "SG"
	SmallForward  PositionClass = "SF"
	PowerForward  PositionClass = "PF"
	Center        PositionClass = "C"
)

// DefenderClass groups key defenders into the coarse G/F/C buckets used
// by the injury adjustment weights
type DefenderClass string

const (
	DefenderGuard   DefenderClass = "G"
	DefenderForward DefenderClass = "F"
	DefenderCenter  DefenderClass = "C"
)

// paceRatings holds relative possessions-per-48 multipliers.
// Source: NBA.com Advanced Stats.
var paceRatings = map[string]float64{
	"WAS": 1.04, "IND": 1.03, "ATL": 1.03, "SAS": 1.02, "OKC": 1.02,
	"GSW": 1.01, "UTA": 1.01, "MIL": 1.01, "SAC": 1.01, "LAL": 1.01,
	"HOU": 1.00, "TOR": 1.00, "BKN": 1.00, "MEM": 1.00, "CHI": 1.00,
	"NOP": 0.99, "PHX": 0.99, "LAC": 0.99, "BOS": 0.99, "PHI": 0.99,
	"DET": 0.98, "ORL": 0.98, "MIA": 0.98, "POR": 0.98, "DAL": 0.98,
	"MIN": 0.97, "CLE": 0.97, "DEN": 0.96, "NYK": 0.95,
}

// dvpRatings is the defense-vs-position matrix. Values below 1.0 mean the
// team suppresses that position, above 1.0 mean it concedes to it.
var dvpRatings = map[string]map[PositionClass]float64{
	// Elite defenses
	"MIN": {PointGuard: 0.92, ShootingGuard: 0.88, SmallForward: 0.90, PowerForward: 0.90, Center: 0.85},
	"BOS": {PointGuard: 0.90, ShootingGuard: 0.90, SmallForward: 0.92, PowerForward: 0.94, Center: 0.95},
	"ORL": {PointGuard: 0.93, ShootingGuard: 0.92, SmallForward: 0.90, PowerForward: 0.91, Center: 0.94},
	"OKC": {PointGuard: 0.94, ShootingGuard: 0.91, SmallForward: 0.93, PowerForward: 0.90, Center: 0.88},
	"CLE": {PointGuard: 0.95, ShootingGuard: 0.94, SmallForward: 0.96, PowerForward: 0.90, Center: 0.92},

	// Average or position-specific defenses
	"MIA": {PointGuard: 0.96, ShootingGuard: 0.98, SmallForward: 0.95, PowerForward: 0.99, Center: 0.90},
	"LAL": {PointGuard: 1.05, ShootingGuard: 1.02, SmallForward: 1.00, PowerForward: 0.98, Center: 0.92},
	"PHI": {PointGuard: 1.02, ShootingGuard: 1.00, SmallForward: 1.01, PowerForward: 1.03, Center: 0.90},
	"DEN": {PointGuard: 1.04, ShootingGuard: 1.03, SmallForward: 1.00, PowerForward: 0.98, Center: 0.96},
	"PHX": {PointGuard: 1.00, ShootingGuard: 1.01, SmallForward: 0.98, PowerForward: 1.02, Center: 1.03},
	"NYK": {PointGuard: 0.98, ShootingGuard: 0.99, SmallForward: 0.95, PowerForward: 1.00, Center: 1.02},
	"MIL": {PointGuard: 1.06, ShootingGuard: 1.04, SmallForward: 0.98, PowerForward: 0.92, Center: 0.98},
	"GSW": {PointGuard: 1.02, ShootingGuard: 1.00, SmallForward: 0.98, PowerForward: 0.95, Center: 1.05},
	"LAC": {PointGuard: 1.01, ShootingGuard: 1.00, SmallForward: 0.96, PowerForward: 1.02, Center: 1.01},
	"DAL": {PointGuard: 1.03, ShootingGuard: 1.02, SmallForward: 1.00, PowerForward: 1.04, Center: 0.98},
	"SAC": {PointGuard: 1.05, ShootingGuard: 1.06, SmallForward: 1.04, PowerForward: 1.02, Center: 1.05},
	"BKN": {PointGuard: 1.04, ShootingGuard: 1.03, SmallForward: 1.02, PowerForward: 1.05, Center: 1.04},
	"HOU": {PointGuard: 0.98, ShootingGuard: 0.97, SmallForward: 0.96, PowerForward: 1.02, Center: 1.00},
	"NOP": {PointGuard: 1.02, ShootingGuard: 1.01, SmallForward: 0.98, PowerForward: 1.04, Center: 1.05},

	// Leaky defenses
	"WAS": {PointGuard: 1.15, ShootingGuard: 1.14, SmallForward: 1.12, PowerForward: 1.10, Center: 1.15},
	"DET": {PointGuard: 1.10, ShootingGuard: 1.12, SmallForward: 1.08, PowerForward: 1.09, Center: 1.05},
	"CHA": {PointGuard: 1.12, ShootingGuard: 1.13, SmallForward: 1.10, PowerForward: 1.08, Center: 1.11},
	"POR": {PointGuard: 1.14, ShootingGuard: 1.12, SmallForward: 1.10, PowerForward: 1.08, Center: 1.09},
	"SAS": {PointGuard: 1.08, ShootingGuard: 1.09, SmallForward: 1.07, PowerForward: 1.05, Center: 0.95},
	"ATL": {PointGuard: 1.13, ShootingGuard: 1.12, SmallForward: 1.08, PowerForward: 1.06, Center: 1.05},
	"IND": {PointGuard: 1.10, ShootingGuard: 1.11, SmallForward: 1.09, PowerForward: 1.12, Center: 1.08},
	"UTA": {PointGuard: 1.11, ShootingGuard: 1.10, SmallForward: 1.09, PowerForward: 1.12, Center: 1.08},
	"TOR": {PointGuard: 1.08, ShootingGuard: 1.09, SmallForward: 1.07, PowerForward: 1.10, Center: 1.06},
	"CHI": {PointGuard: 1.09, ShootingGuard: 1.10, SmallForward: 1.06, PowerForward: 1.05, Center: 1.08},
	"MEM": {PointGuard: 1.02, ShootingGuard: 1.01, SmallForward: 1.00, PowerForward: 0.95, Center: 1.02},
}

// DefenderImpact holds the fixed position class and impact weight of a
// key defender whose absence weakens his team's defense
type DefenderImpact struct {
	Class  DefenderClass
	Impact float64
}

// keyDefenders lists defensive anchors and their impact weights
var keyDefenders = map[string]DefenderImpact{
	"Rudy Gobert":           {DefenderCenter, 0.15},
	"Anthony Davis":         {DefenderCenter, 0.12},
	"Joel Embiid":           {DefenderCenter, 0.12},
	"Bam Adebayo":           {DefenderCenter, 0.10},
	"Victor Wembanyama":     {DefenderCenter, 0.12},
	"Jarrett Allen":         {DefenderCenter, 0.09},
	"Chet Holmgren":         {DefenderCenter, 0.10},
	"Giannis Antetokounmpo": {DefenderForward, 0.10},
	"Evan Mobley":           {DefenderForward, 0.09},
	"Draymond Green":        {DefenderForward, 0.10},
	"OG Anunoby":            {DefenderForward, 0.08},
	"Jaren Jackson Jr.":     {DefenderForward, 0.10},
	"Herbert Jones":         {DefenderForward, 0.07},
	"Jrue Holiday":          {DefenderGuard, 0.08},
	"Derrick White":         {DefenderGuard, 0.07},
	"Alex Caruso":           {DefenderGuard, 0.07},
	"Lu Dort":               {DefenderGuard, 0.07},
}

// teamStars lists each team's franchise scorers. When one of these is OUT
// his teammates receive a usage boost.
var teamStars = map[string][]string{
	"ATL": {"Trae Young"},
	"BOS": {"Jayson Tatum", "Jaylen Brown"},
	"BKN": {"Cam Thomas"},
	"CHA": {"LaMelo Ball"},
	"CHI": {"Zach LaVine"},
	"CLE": {"Donovan Mitchell", "Darius Garland"},
	"DAL": {"Luka Doncic", "Kyrie Irving"},
	"DEN": {"Nikola Jokic", "Jamal Murray"},
	"DET": {"Cade Cunningham"},
	"GSW": {"Stephen Curry"},
	"HOU": {"Alperen Sengun", "Jalen Green"},
	"IND": {"Tyrese Haliburton", "Pascal Siakam"},
	"LAC": {"Kawhi Leonard", "James Harden"},
	"LAL": {"LeBron James", "Anthony Davis"},
	"MEM": {"Ja Morant", "Desmond Bane"},
	"MIA": {"Jimmy Butler", "Tyler Herro"},
	"MIL": {"Giannis Antetokounmpo", "Damian Lillard"},
	"MIN": {"Anthony Edwards", "Karl-Anthony Towns"},
	"NOP": {"Zion Williamson", "Brandon Ingram"},
	"NYK": {"Jalen Brunson", "Karl-Anthony Towns"},
	"OKC": {"Shai Gilgeous-Alexander"},
	"ORL": {"Paolo Banchero", "Franz Wagner"},
	"PHI": {"Joel Embiid", "Tyrese Maxey", "Paul George"},
	"PHX": {"Kevin Durant", "Devin Booker"},
	"POR": {"Anfernee Simons"},
	"SAC": {"De'Aaron Fox", "Domantas Sabonis"},
	"SAS": {"Victor Wembanyama"},
	"TOR": {"Scottie Barnes"},
	"UTA": {"Lauri Markkanen"},
	"WAS": {"Kyle Kuzma", "Jordan Poole"},
}

// TeamCodeByNBAID maps NBA franchise identifiers to three-letter codes
var TeamCodeByNBAID = map[int]string{
	1610612737: "ATL", 1610612738: "BOS", 1610612739: "CLE", 1610612740: "NOP",
	1610612741: "CHI", 1610612742: "DAL", 1610612743: "DEN", 1610612744: "GSW",
	1610612745: "HOU", 1610612746: "LAC", 1610612747: "LAL", 1610612748: "MIA",
	1610612749: "MIL", 1610612750: "MIN", 1610612751: "BKN", 1610612752: "NYK",
	1610612753: "ORL", 1610612754: "IND", 1610612755: "PHI", 1610612756: "PHX",
	1610612757: "POR", 1610612758: "SAC", 1610612759: "SAS", 1610612760: "OKC",
	1610612761: "TOR", 1610612762: "UTA", 1610612763: "MEM", 1610612764: "WAS",
	1610612765: "DET", 1610612766: "CHA",
}

// TeamNameByCode maps team codes to the full names used by The-Odds-API
var TeamNameByCode = map[string]string{
	"ATL": "Atlanta Hawks", "BOS": "Boston Celtics", "BKN": "Brooklyn Nets",
	"CHA": "Charlotte Hornets", "CHI": "Chicago Bulls", "CLE": "Cleveland Cavaliers",
	"DAL": "Dallas Mavericks", "DEN": "Denver Nuggets", "DET": "Detroit Pistons",
	"GSW": "Golden State Warriors", "HOU": "Houston Rockets", "IND": "Indiana Pacers",
	"LAC": "Los Angeles Clippers", "LAL": "Los Angeles Lakers", "MEM": "Memphis Grizzlies",
	"MIA": "Miami Heat", "MIL": "Milwaukee Bucks", "MIN": "Minnesota Timberwolves",
	"NOP": "New Orleans Pelicans", "NYK": "New York Knicks", "OKC": "Oklahoma City Thunder",
	"ORL": "Orlando Magic", "PHI": "Philadelphia 76ers", "PHX": "Phoenix Suns",
	"POR": "Portland Trail Blazers", "SAC": "Sacramento Kings", "SAS": "San Antonio Spurs",
	"TOR": "Toronto Raptors", "UTA": "Utah Jazz", "WAS": "Washington Wizards",
}

// ValidateTables performs a startup sanity check of the static factor
// tables. A malformed table is a configuration error and must fail fast
// before any scan begins.
func ValidateTables() error {
	for team, pace := range paceRatings {
		if pace <= 0 {
			return &TableError{Table: "pace", Key: team}
		}
	}
	for team, row := range dvpRatings {
		for pos, v := range row {
			if v <= 0 {
				return &TableError{Table: "dvp", Key: team + "/" + string(pos)}
			}
		}
	}
	for name, d := range keyDefenders {
		if d.Impact <= 0 {
			return &TableError{Table: "key_defenders", Key: name}
		}
	}
	return nil
}

// TableError reports an invalid static factor-table entry
type TableError struct {
	Table string
	Key   string
}

func (e *TableError) Error() string {
	return "invalid factor table entry: " + e.Table + "[" + e.Key + "]"
}
