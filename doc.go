// Package dynstore resolves storage backends by name.
//
// A Registry holds an ordered list of (Pattern, Constructor) entries. A
// Resolver matches a requested name against those patterns in registration
// order; the first match builds a backend which is cached under the exact
// name, so later lookups return the same instance. Names that match no
// pattern are handed to a DefaultResolver and the result is not cached.
//
//	r, _ := dynstore.New()
//	r.Register(dynstore.Regexp(`^cache_(\w+)$`), func(m dynstore.Match) (backends.Backend, error) {
//		p, err := prefix.New(shared, m.Group(1))
//		if err != nil {
//			return nil, err
//		}
//		return p, nil
//	})
//	b, err := r.Resolve("cache_users")
package dynstore
