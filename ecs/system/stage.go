package system

import (
	"github.com/charmbracelet/log"
	"github.com/milk9111/danmaku/ecs"
	"github.com/milk9111/danmaku/prefabs"
)

// StageSystem feeds the stage's spawn schedule into the command buffer.
type StageSystem struct {
	stage *prefabs.StageSpec
	out   *CommandBuffer
	frame int
	next  int
}

// NewStageSystem expects stage.Spawns sorted by frame, as LoadStage returns
// them.
func NewStageSystem(stage *prefabs.StageSpec, out *CommandBuffer) *StageSystem {
	return &StageSystem{stage: stage, out: out}
}

// Frame returns the number of ticks the stage has run.
func (s *StageSystem) Frame() int {
	return s.frame
}

// Done reports whether every spawn has been issued.
func (s *StageSystem) Done() bool {
	return s.stage == nil || s.next >= len(s.stage.Spawns)
}

func (s *StageSystem) Update(w *ecs.World) {
	if s.stage == nil {
		return
	}
	for ; s.next < len(s.stage.Spawns); s.next++ {
		sp := s.stage.Spawns[s.next]
		if sp.Frame > s.frame {
			break
		}
		cmd, err := sp.Summon()
		if err != nil {
			log.Error("stage spawn skipped", "stage", s.stage.Name, "frame", sp.Frame, "err", err)
			continue
		}
		s.out.PushIssued(Issued{Cmd: cmd, TTL: sp.TTL})
	}
	s.frame++
}
