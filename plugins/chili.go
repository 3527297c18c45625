package plugins

import (
	"fmt"
	"math/rand"
	"regexp"
)

var chiliAdjectives = []string{
	"animal style",
	"appreciative",
	"canadian",
	"cheetah",
	"cold",
	"double",
	"east coast",
	"elastic",
	"emergency",
	"evening",
	"frothy",
	"golden",
	"late",
	"late night",
	"morning",
	"pink",
	"power",
	"quantum",
	"red",
	"saturday",
	"standing",
	"value",
	"virtual",
}

var chiliDeliveryDevices = []string{
	"amoeba",
	"animal",
	"anteater",
	"bear",
	"blue whale",
	"brontosaurus",
	"bug",
	"canal",
	"cat",
	"chicken",
	"chinchilla",
	"coelecanth",
	"dire wolf",
	"dog",
	"doge",
	"donut",
	"dragon",
	"elephant",
	"enchilada",
	"ferret",
	"ghost",
	"godzilla",
	"hug",
	"jellyfish",
	"kangaroo",
	"mammoth",
	"monkey",
	"monster",
	"moose",
	"nuke",
	"opossum",
	"owl",
	"pangolin",
	"penis",
	"pig",
	"platypus",
	"polar bear",
	"pufferfish",
	"puma",
	"saint bernard",
	"skunk",
	"snake",
	"sock",
	"space reptile",
	"sperm whale",
	"sundae",
	"tapir",
	"troll",
	"unicorn",
	"vat",
	"walrus",
	"warthog",
	"weasel",
	"whale",
	"wolf",
	"wolverine",
}

var chiliOneOffs = []string{
	"My hobbies include splitting wood and serving chili dogs.",
	"Tis better to give than receive chili dogs!",
	"_reads the latest chilizoological report_",
}

var chiliSides = []string{
	"a blue sock",
	"a coco dongle",
	"cold semen",
	"mayo",
	"muppet sauce",
	"mustard",
	"a pink sock",
	"a red sock",
}

// Odds of the chili garnishes
const (
	adjectiveOdds = 0.5
	sideOdds      = 0.2
	oneOffOdds    = 0.01
)

var vowelStart = regexp.MustCompile("^[aeiou]")

// Chili serves chili dogs, one recipient at a time
type Chili struct {
	r *randomizer
}

// NewChili returns a new Chili. A nil rnd uses a time-seeded source
func NewChili(rnd *rand.Rand) (c *Chili) {
	return &Chili{r: newRandomizer(rnd)}
}

// Serve returns the chili dog given to userID (i.e. "_gives <@U123> a golden chili owl_")
func (c *Chili) Serve(userID string) string {
	entree := "chili " + selectFrom(c.r, chiliDeliveryDevices)
	if c.r.Float64() < adjectiveOdds {
		entree = selectFrom(c.r, chiliAdjectives) + " " + entree
	}
	entree = articleFor(entree) + " " + entree

	if c.r.Float64() < sideOdds {
		entree = fmt.Sprintf("%s with %s", entree, selectFrom(c.r, chiliSides))
	}

	return fmt.Sprintf("_gives %s %s_", normalizeUserID(userID), entree)
}

// Flood returns what the chili monster says to userID. It's occasionally a one-off line and
// always one when there is no user
func (c *Chili) Flood(userID string) string {
	if userID == "" || c.r.Float64() < oneOffOdds {
		return selectFrom(c.r, chiliOneOffs)
	}

	return c.Serve(userID)
}

func articleFor(term string) string {
	if vowelStart.MatchString(term) {
		return "an"
	}

	return "a"
}
