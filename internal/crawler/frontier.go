package crawler

// task is one unit of crawl work.
type task struct {
	url   string
	depth int
}

// frontier is a LIFO stack of pending tasks.
type frontier struct {
	tasks []task
}

// push adds t on top of the stack.
func (f *frontier) push(t task) {
	f.tasks = append(f.tasks, t)
}

// pushChildren pushes the links of one page so that children[0] is popped
// first. This keeps the traversal depth-first and left-to-right.
func (f *frontier) pushChildren(children []task) {
	for i := len(children) - 1; i >= 0; i-- {
		f.push(children[i])
	}
}

// pop removes and returns the most recently pushed task.
func (f *frontier) pop() (task, bool) {
	if len(f.tasks) == 0 {
		return task{}, false
	}
	last := len(f.tasks) - 1
	t := f.tasks[last]
	f.tasks = f.tasks[:last]
	return t, true
}

// size returns the number of pending tasks.
func (f *frontier) size() int {
	return len(f.tasks)
}
