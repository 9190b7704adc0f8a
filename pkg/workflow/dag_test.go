package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridironlabs/pregame/pkg/agents"
)

func spec(id string, deps ...string) TaskSpec {
	return TaskSpec{ID: id, Kind: agents.KindPerformance, DependsOn: deps}
}

func TestNewGraphValid(t *testing.T) {
	g, err := NewGraph([]TaskSpec{
		spec("a"),
		spec("b", "a"),
		spec("c", "a", "b"),
	})
	require.NoError(t, err)
	assert.Equal(t, 3, g.Len())

	tasks := g.Tasks()
	require.Len(t, tasks, 3)
	assert.Equal(t, "a", tasks[0].ID)
	assert.Equal(t, "c", tasks[2].ID)

	c, ok := g.Task("c")
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, c.DependsOn)
}

func TestNewGraphRejectsEmpty(t *testing.T) {
	_, err := NewGraph(nil)
	assert.ErrorIs(t, err, ErrGraph)
}

func TestNewGraphRejectsEmptyID(t *testing.T) {
	_, err := NewGraph([]TaskSpec{spec("")})
	assert.ErrorIs(t, err, ErrGraph)
}

func TestNewGraphRejectsDuplicateID(t *testing.T) {
	_, err := NewGraph([]TaskSpec{spec("a"), spec("a")})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrGraph)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestNewGraphRejectsUnknownDependency(t *testing.T) {
	_, err := NewGraph([]TaskSpec{spec("a", "ghost")})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrGraph)
	assert.Contains(t, err.Error(), "unknown")
}

func TestNewGraphRejectsSelfDependency(t *testing.T) {
	_, err := NewGraph([]TaskSpec{spec("a", "a")})
	assert.ErrorIs(t, err, ErrGraph)
}

func TestNewGraphRejectsCycle(t *testing.T) {
	_, err := NewGraph([]TaskSpec{
		spec("a", "c"),
		spec("b", "a"),
		spec("c", "b"),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrGraph)
	assert.Contains(t, err.Error(), "cycle")
}

func TestDefaultPlanValidates(t *testing.T) {
	g, err := NewGraph(DefaultPlan())
	require.NoError(t, err)
	assert.Equal(t, len(agents.Kinds()), g.Len())

	matchup, ok := g.Task(string(agents.KindMatchup))
	require.True(t, ok)
	assert.ElementsMatch(t, []string{
		string(agents.KindPerformance), string(agents.KindInjury),
	}, matchup.DependsOn)
}

func TestPlanForDropsMissingDependencies(t *testing.T) {
	plan := PlanFor([]agents.Kind{agents.KindMatchup, agents.KindPerformance})
	require.Len(t, plan, 2)

	g, err := NewGraph(plan)
	require.NoError(t, err)

	matchup, ok := g.Task(string(agents.KindMatchup))
	require.True(t, ok)
	assert.Equal(t, []string{string(agents.KindPerformance)}, matchup.DependsOn)
}
