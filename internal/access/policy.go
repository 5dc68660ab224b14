// Package access реализует политику доступа к курсам и урокам:
// набор чистых предикатов о роли и владении и таблицу правил по действиям.
package access

// Action действие над курсом или уроком.
type Action string

const (
	ActionCreate   Action = "create"
	ActionRetrieve Action = "retrieve"
	ActionUpdate   Action = "update"
	ActionDelete   Action = "delete"
	ActionList     Action = "list"
)

// Actor субъект запроса.
type Actor struct {
	UserID        int64
	Authenticated bool
	Moderator     bool
}

// Resource объект, у которого может быть владелец. Для create и list ресурс равен nil.
type Resource interface {
	Owner() *int64
}

// Predicate условие над субъектом и ресурсом.
type Predicate func(actor Actor, res Resource) bool

// IsAuthenticated истинно для аутентифицированного субъекта.
func IsAuthenticated(actor Actor, _ Resource) bool {
	return actor.Authenticated
}

// IsModerator истинно, если субъект входит в группу модераторов.
func IsModerator(actor Actor, _ Resource) bool {
	return actor.Authenticated && actor.Moderator
}

// IsOwner истинно, если субъект владеет ресурсом. Ресурс без владельца не принадлежит никому.
func IsOwner(actor Actor, res Resource) bool {
	if !actor.Authenticated || res == nil {
		return false
	}
	owner := res.Owner()
	return owner != nil && *owner == actor.UserID
}

// Not инвертирует предикат.
func Not(p Predicate) Predicate {
	return func(actor Actor, res Resource) bool {
		return !p(actor, res)
	}
}

// Any истинно, если выполнен хотя бы один предикат.
func Any(ps ...Predicate) Predicate {
	return func(actor Actor, res Resource) bool {
		for _, p := range ps {
			if p(actor, res) {
				return true
			}
		}
		return false
	}
}

// All истинно, если выполнены все предикаты.
func All(ps ...Predicate) Predicate {
	return func(actor Actor, res Resource) bool {
		for _, p := range ps {
			if !p(actor, res) {
				return false
			}
		}
		return true
	}
}

// Policy таблица правил: одно правило на действие. Действие без правила запрещено.
type Policy struct {
	rules map[Action]Predicate
}

// DefaultPolicy возвращает политику платформы:
//
//	create           - аутентифицирован и не модератор
//	retrieve, update - аутентифицирован и (модератор или владелец)
//	delete           - аутентифицирован и владелец
//	list             - аутентифицирован
func DefaultPolicy() *Policy {
	return &Policy{rules: map[Action]Predicate{
		ActionCreate:   All(IsAuthenticated, Not(IsModerator)),
		ActionRetrieve: All(IsAuthenticated, Any(IsModerator, IsOwner)),
		ActionUpdate:   All(IsAuthenticated, Any(IsModerator, IsOwner)),
		ActionDelete:   All(IsAuthenticated, IsOwner),
		ActionList:     IsAuthenticated,
	}}
}

// WithRule возвращает копию политики с заменённым правилом для действия.
func (p *Policy) WithRule(action Action, rule Predicate) *Policy {
	rules := make(map[Action]Predicate, len(p.rules)+1)
	for a, r := range p.rules {
		rules[a] = r
	}
	rules[action] = rule
	return &Policy{rules: rules}
}

// Allow решает, может ли субъект выполнить действие над ресурсом.
func (p *Policy) Allow(actor Actor, action Action, res Resource) bool {
	rule, ok := p.rules[action]
	if !ok {
		return false
	}
	return rule(actor, res)
}
