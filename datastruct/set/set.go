// Package set provides string set collections: a plain Set for
// single-threaded pipelines and a sharded ConcurrentSet for parallel
// accumulation.
package set

// Set is a set of strings based on hash table
type Set struct {
	m map[string]struct{}
}

// Make creates a new set containing the given members
func Make(members ...string) *Set {
	set := &Set{
		m: make(map[string]struct{}, len(members)),
	}
	for _, member := range members {
		set.Add(member)
	}
	return set
}

// Add adds member into set, returns 1 if the member was new
func (set *Set) Add(val string) int {
	if _, ok := set.m[val]; ok {
		return 0
	}
	set.m[val] = struct{}{}
	return 1
}

// Remove removes member from set, returns 1 if the member existed
func (set *Set) Remove(val string) int {
	if _, ok := set.m[val]; !ok {
		return 0
	}
	delete(set.m, val)
	return 1
}

// Has returns true if the val exists in the set
func (set *Set) Has(val string) bool {
	if set == nil || set.m == nil {
		return false
	}
	_, exists := set.m[val]
	return exists
}

// Len returns the number of members in the set
func (set *Set) Len() int {
	if set == nil || set.m == nil {
		return 0
	}
	return len(set.m)
}

// ToSlice converts the set to a []string in unspecified order
func (set *Set) ToSlice() []string {
	slice := make([]string, 0, set.Len())
	for member := range set.m {
		slice = append(slice, member)
	}
	return slice
}

// ForEach visits each member in the set until the consumer returns false
func (set *Set) ForEach(consumer func(member string) bool) {
	if set == nil || set.m == nil {
		return
	}
	for member := range set.m {
		if !consumer(member) {
			return
		}
	}
}
