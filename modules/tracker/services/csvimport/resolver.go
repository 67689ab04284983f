package csvimport

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/sirupsen/logrus"

	"github.com/actiontracker/tracker/modules/tracker/domain/entities/user"
)

// Rule is one way a free-text name can match a stored user.
type Rule int

const (
	RuleExactName Rule = iota + 1
	RuleInitialSurname
	RuleInitialsField
	RuleSubstring
)

func (r Rule) String() string {
	switch r {
	case RuleExactName:
		return "exact name"
	case RuleInitialSurname:
		return "initial and surname"
	case RuleInitialsField:
		return "initials"
	case RuleSubstring:
		return "substring"
	default:
		return "unknown"
	}
}

// resolutionOrder is evaluated top to bottom; the first rule with a match wins.
var resolutionOrder = []Rule{RuleExactName, RuleInitialSurname, RuleInitialsField, RuleSubstring}

type Resolution struct {
	User user.User
	Rule Rule
}

type foldedUser struct {
	user     user.User
	name     string
	initials string
}

// UserResolver maps CSV person names to users. It is scoped to one import run.
type UserResolver struct {
	users  []foldedUser
	cache  map[string]Resolution
	logger *logrus.Entry
}

// NewUserResolver keeps users in the given order; callers pass them sorted by id.
func NewUserResolver(users []user.User, logger *logrus.Entry) *UserResolver {
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	folded := make([]foldedUser, 0, len(users))
	for _, u := range users {
		folded = append(folded, foldedUser{
			user:     u,
			name:     fold(u.Name),
			initials: fold(u.InitialsOrEmpty()),
		})
	}
	return &UserResolver{
		users:  folded,
		cache:  make(map[string]Resolution),
		logger: logger,
	}
}

func (r *UserResolver) Resolve(name string) (Resolution, error) {
	key := strings.TrimSpace(name)
	if res, ok := r.cache[key]; ok {
		return res, nil
	}

	input := fold(key)
	if input != "" {
		for _, rule := range resolutionOrder {
			matches := r.match(rule, input)
			if len(matches) == 0 {
				continue
			}
			if len(matches) > 1 {
				names := make([]string, 0, len(matches))
				for _, m := range matches {
					names = append(names, m.Name)
				}
				r.logger.WithFields(logrus.Fields{
					"input":      key,
					"rule":       rule.String(),
					"candidates": names,
				}).Warn("ambiguous user name, using the first match")
			}
			res := Resolution{User: matches[0], Rule: rule}
			r.cache[key] = res
			return res, nil
		}
	}

	return Resolution{}, &UnresolvedUserError{
		Input:       key,
		Known:       r.knownNames(),
		Suggestions: r.suggest(input),
	}
}

func (r *UserResolver) match(rule Rule, input string) []user.User {
	var pred func(foldedUser) bool
	switch rule {
	case RuleExactName:
		pred = func(u foldedUser) bool { return u.name == input }
	case RuleInitialSurname:
		initial, surname, ok := splitInitialSurname(input)
		if !ok {
			return nil
		}
		pred = func(u foldedUser) bool {
			return strings.HasPrefix(u.name, initial) && strings.HasSuffix(u.name, surname)
		}
	case RuleInitialsField:
		pred = func(u foldedUser) bool { return u.initials != "" && u.initials == input }
	case RuleSubstring:
		pred = func(u foldedUser) bool { return strings.Contains(u.name, input) }
	default:
		return nil
	}

	var out []user.User
	for _, u := range r.users {
		if pred(u) {
			out = append(out, u.user)
		}
	}
	return out
}

// splitInitialSurname splits "M. Fitzgerald" at the first period.
func splitInitialSurname(input string) (string, string, bool) {
	initial, surname, found := strings.Cut(input, ".")
	if !found {
		return "", "", false
	}
	initial = strings.TrimSpace(initial)
	surname = strings.TrimSpace(surname)
	if initial == "" || surname == "" {
		return "", "", false
	}
	return initial, surname, true
}

func (r *UserResolver) knownNames() []string {
	names := make([]string, 0, len(r.users))
	for _, u := range r.users {
		names = append(names, u.user.Name)
	}
	return names
}

const maxSuggestions = 3

func (r *UserResolver) suggest(input string) []string {
	if input == "" {
		return nil
	}
	type candidate struct {
		name     string
		distance int
	}
	var candidates []candidate
	for _, u := range r.users {
		d := fuzzy.LevenshteinDistance(input, u.name)
		limit := max(len(input), len(u.name)) / 2
		if d <= limit {
			candidates = append(candidates, candidate{name: u.user.Name, distance: d})
		}
	}
	for _, rank := range fuzzy.RankFindFold(input, r.knownNames()) {
		candidates = append(candidates, candidate{name: rank.Target, distance: rank.Distance})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].distance < candidates[j].distance
	})

	seen := make(map[string]struct{})
	var out []string
	for _, c := range candidates {
		if _, ok := seen[c.name]; ok {
			continue
		}
		seen[c.name] = struct{}{}
		out = append(out, c.name)
		if len(out) == maxSuggestions {
			break
		}
	}
	return out
}
