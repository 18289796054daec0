/*
   Simple World  - world-action subcommand resolution

   Copyright 2024, Richard Cornwell

   Permission is hereby granted, free of charge, to any person obtaining a copy
   of this software and associated documentation files (the "Software"), to deal
   in the Software without restriction, including without limitation the rights
   to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
   copies of the Software, and to permit persons to whom the Software is
   furnished to do so, subject to the following conditions:

   The above copyright notice and this permission notice shall be included in
   all copies or substantial portions of the Software.

   THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
   IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
   FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
   AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
   LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
   OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
   SOFTWARE.
*/

package scheduler

import (
	"context"
	"fmt"

	"github.com/rcornwell/simpleworld/internal/cpu"
	"github.com/rcornwell/simpleworld/internal/instruction"
	"github.com/rcornwell/simpleworld/internal/mutation"
	"github.com/rcornwell/simpleworld/internal/ops"
	"github.com/rcornwell/simpleworld/internal/store"
	"github.com/rcornwell/simpleworld/internal/world"
)

// resolveAction runs a matured world action to completion. The subcommand
// is read back from the memory word at pc rather than stored anywhere,
// since ResumeAfterWorldAction only advances pc once the action is
// resolved - the world instruction itself is still sitting at pc, so its
// immediate operand (inst.Third) is the subcommand exactly as it was when
// the action started.
func (s *Scheduler) resolveAction(ctx context.Context, tx *store.Tx, env *store.Environment, lb *liveBug) error {
	pc := lb.cpu.Reg(cpu.RegPC)
	word, err := lb.cpu.Memory.GetWord(int(pc), false)
	if err != nil {
		return fmt.Errorf("resolve action: bug %d: %w", lb.bugID, err)
	}
	inst := instruction.Decode(word)
	action := uint32(inst.Third)

	r0, r1, r2, recognized, err := s.performSubcommand(ctx, tx, env, lb, action)
	if err != nil {
		return err
	}

	lb.actionDeadline = nil
	if !recognized {
		lb.cpu.RaiseWorldAction()
		return s.persistBugState(ctx, tx, lb)
	}

	cost := actionCost(env, action)
	lb.energy -= cost

	lb.cpu.SetReg(1, r1)
	lb.cpu.SetReg(2, r2)
	lb.cpu.ResumeAfterWorldAction(r0)
	t := env.Time
	lb.lastAction = &t

	if lb.energy <= 0 {
		return s.killBug(ctx, tx, env, lb.bugID, nil)
	}
	return s.persistBugState(ctx, tx, lb)
}

// actionCost looks up the energy_* column matching a recognized
// subcommand, charged regardless of whether the action itself succeeded.
func actionCost(env *store.Environment, action uint32) int64 {
	switch {
	case action == ops.ActionNothing:
		return env.EnergyNothing
	case action >= ops.ActionMyselfID && action <= ops.ActionMyselfOrientation:
		return env.EnergyMyself
	case action == ops.ActionDetect:
		return env.EnergyDetect
	case action >= ops.ActionInfoID && action <= ops.ActionInfoOrientation:
		return env.EnergyInfo
	case action == ops.ActionMoveForward || action == ops.ActionMoveBackward:
		return env.EnergyMove
	case action == ops.ActionTurnLeft || action == ops.ActionTurnRight:
		return env.EnergyTurn
	case action == ops.ActionAttack:
		return env.EnergyAttack
	case action == ops.ActionEat:
		return env.EnergyEat
	case action == ops.ActionEgg:
		return env.EnergyEgg
	default:
		return 0
	}
}

// performSubcommand dispatches a matured world action's subcommand and
// returns the r0/r1/r2 it should resume with. recognized is false only
// when action is not in the closed table at all (§4.M: "the executor
// raises the world-action interrupt and the action is abandoned"); every
// recognized subcommand always reports either ActionSuccess or
// ActionFailure, never a Go error, for the ordinary failure cases
// (nothing in front, target out of range) - an error return is reserved
// for store/grid failures that indicate a bug in the scheduler itself.
func (s *Scheduler) performSubcommand(ctx context.Context, tx *store.Tx, env *store.Environment, lb *liveBug, action uint32) (r0, r1, r2 uint32, recognized bool, err error) {
	switch action {
	case ops.ActionNothing:
		return ops.ActionSuccess, 0, 0, true, nil

	case ops.ActionMyselfID:
		return ops.ActionSuccess, uint32(lb.bugID), 0, true, nil
	case ops.ActionMyselfSize:
		return ops.ActionSuccess, uint32(lb.cpu.Memory.Size()), 0, true, nil
	case ops.ActionMyselfEnergy:
		return ops.ActionSuccess, uint32(lb.energy), 0, true, nil
	case ops.ActionMyselfPosition:
		return ops.ActionSuccess, uint32(lb.position.X), uint32(lb.position.Y), true, nil
	case ops.ActionMyselfOrientation:
		return ops.ActionSuccess, uint32(lb.orientation), 0, true, nil

	case ops.ActionDetect:
		front := world.Moved(lb.position, lb.orientation, world.MoveForward, s.Grid.Size())
		used, gridErr := s.Grid.Used(front)
		if gridErr != nil {
			return ops.ActionFailure, 0, 0, true, nil
		}
		if used {
			return ops.ActionSuccess, 1, 0, true, nil
		}
		return ops.ActionSuccess, 0, 0, true, nil

	case ops.ActionInfoID, ops.ActionInfoSize, ops.ActionInfoEnergy, ops.ActionInfoPosition, ops.ActionInfoOrientation:
		r0, r1, r2 = s.infoAction(ctx, lb, action)
		return r0, r1, r2, true, nil

	case ops.ActionMoveForward:
		r0, err = s.moveAction(ctx, tx, lb, world.MoveForward)
		return r0, 0, 0, true, err
	case ops.ActionMoveBackward:
		r0, err = s.moveAction(ctx, tx, lb, world.MoveBackward)
		return r0, 0, 0, true, err

	case ops.ActionTurnLeft:
		r0, err = s.turnAction(ctx, tx, lb, world.TurnLeft)
		return r0, 0, 0, true, err
	case ops.ActionTurnRight:
		r0, err = s.turnAction(ctx, tx, lb, world.TurnRight)
		return r0, 0, 0, true, err

	case ops.ActionAttack:
		r0, err = s.attackAction(ctx, tx, env, lb)
		return r0, 0, 0, true, err

	case ops.ActionEat:
		r0, r1, err = s.eatAction(ctx, tx, lb)
		return r0, r1, 0, true, err

	case ops.ActionEgg:
		r0, r1, err = s.eggAction(ctx, tx, env, lb)
		return r0, r1, 0, true, err

	default:
		return 0, 0, 0, false, nil
	}
}

// infoAction reports on whatever occupies the cell in front of lb: its
// identity, size, energy, position, or orientation, per action.
func (s *Scheduler) infoAction(ctx context.Context, lb *liveBug, action uint32) (r0, r1, r2 uint32) {
	front := world.Moved(lb.position, lb.orientation, world.MoveForward, s.Grid.Size())
	occ, err := s.Grid.Get(front)
	if err != nil {
		return ops.ActionFailure, 0, 0
	}

	switch action {
	case ops.ActionInfoID:
		return ops.ActionSuccess, uint32(occ.ID), 0
	case ops.ActionInfoPosition:
		return ops.ActionSuccess, uint32(front.X), uint32(front.Y)
	case ops.ActionInfoSize:
		if occ.Kind == world.KindFood {
			return ops.ActionSuccess, uint32(s.foodSize[occ.ID]), 0
		}
		other, ok := s.bugs[occ.ID]
		if !ok {
			return ops.ActionFailure, 0, 0
		}
		return ops.ActionSuccess, uint32(other.cpu.Memory.Size()), 0
	case ops.ActionInfoEnergy:
		if occ.Kind == world.KindFood {
			return ops.ActionSuccess, uint32(s.foodSize[occ.ID]), 0
		}
		if occ.Kind == world.KindEgg {
			egg, err := s.Store.GetEgg(ctx, occ.ID)
			if err != nil {
				return ops.ActionFailure, 0, 0
			}
			return ops.ActionSuccess, uint32(egg.Energy), 0
		}
		other, ok := s.bugs[occ.ID]
		if !ok {
			return ops.ActionFailure, 0, 0
		}
		return ops.ActionSuccess, uint32(other.energy), 0
	case ops.ActionInfoOrientation:
		other, ok := s.bugs[occ.ID]
		if !ok {
			return ops.ActionFailure, 0, 0
		}
		return ops.ActionSuccess, uint32(other.orientation), 0
	}
	return ops.ActionFailure, 0, 0
}

// moveAction steps lb one cell forward or backward along its current
// facing, failing if the destination is out of range or occupied.
func (s *Scheduler) moveAction(ctx context.Context, tx *store.Tx, lb *liveBug, m world.Movement) (uint32, error) {
	dest := world.Moved(lb.position, lb.orientation, m, s.Grid.Size())
	if err := s.Grid.Move(lb.position, dest); err != nil {
		return ops.ActionFailure, nil
	}
	if err := tx.UpdateWorldPosition(ctx, lb.worldID, dest); err != nil {
		return 0, err
	}
	lb.position = dest
	return ops.ActionSuccess, nil
}

// turnAction rotates lb's facing a quarter turn; a turn never fails.
func (s *Scheduler) turnAction(ctx context.Context, tx *store.Tx, lb *liveBug, side world.Turn) (uint32, error) {
	lb.orientation = world.Turned(lb.orientation, side)
	if err := tx.UpdateWorldOrientation(ctx, lb.worldID, lb.orientation); err != nil {
		return 0, err
	}
	return ops.ActionSuccess, nil
}

// attackAction debits whatever is in front of lb (a bug or an egg; food
// cannot be attacked) by r0 (the damage the caller primed before issuing
// `world attack`) times env.AttackMultiplier. A victim reduced to zero or
// negative energy dies; otherwise its remaining energy is persisted.
func (s *Scheduler) attackAction(ctx context.Context, tx *store.Tx, env *store.Environment, lb *liveBug) (uint32, error) {
	front := world.Moved(lb.position, lb.orientation, world.MoveForward, s.Grid.Size())
	occ, err := s.Grid.Get(front)
	if err != nil || occ.Kind == world.KindFood {
		return ops.ActionFailure, nil
	}

	damage := int64(float64(lb.cpu.Reg(0)) * env.AttackMultiplier)
	killerID := lb.bugID

	if occ.Kind == world.KindEgg {
		egg, err := s.Store.GetEgg(ctx, occ.ID)
		if err != nil {
			return ops.ActionFailure, nil
		}
		remaining := egg.Energy - damage
		if remaining <= 0 {
			if err := s.killEgg(ctx, tx, env, occ.ID, &killerID); err != nil {
				return 0, err
			}
			return ops.ActionSuccess, nil
		}
		if err := tx.UpdateEggEnergy(ctx, occ.ID, remaining); err != nil {
			return 0, err
		}
		return ops.ActionSuccess, nil
	}

	victim, ok := s.bugs[occ.ID]
	if !ok {
		return ops.ActionFailure, nil
	}
	victim.energy -= damage
	if victim.energy <= 0 {
		if err := s.killBug(ctx, tx, env, victim.bugID, &killerID); err != nil {
			return 0, err
		}
		return ops.ActionSuccess, nil
	}
	if err := s.persistBugState(ctx, tx, victim); err != nil {
		return 0, err
	}
	return ops.ActionSuccess, nil
}

// eatAction consumes the food pile in front of lb, transferring its whole
// remaining size into lb's energy and removing it from the grid.
func (s *Scheduler) eatAction(ctx context.Context, tx *store.Tx, lb *liveBug) (uint32, uint32, error) {
	front := world.Moved(lb.position, lb.orientation, world.MoveForward, s.Grid.Size())
	occ, err := s.Grid.Get(front)
	if err != nil || occ.Kind != world.KindFood {
		return ops.ActionFailure, 0, nil
	}

	size := s.foodSize[occ.ID]
	worldID := s.foodWorldID[occ.ID]
	if err := tx.UpdateFoodSize(ctx, occ.ID, 0); err != nil {
		return 0, 0, err
	}
	if err := tx.DeleteWorld(ctx, worldID); err != nil {
		return 0, 0, err
	}
	if err := s.Grid.Remove(front); err != nil {
		return 0, 0, err
	}
	delete(s.foodSize, occ.ID)
	delete(s.foodWorldID, occ.ID)

	lb.energy += int64(size)
	return ops.ActionSuccess, uint32(size), nil
}

// eggAction lays a new egg in front of lb, transferring r0 units of lb's
// own energy into it and mutating a copy of lb's code to seed it with,
// exactly as a bug hatching its own offspring would in the original
// system. Fails if the cell in front is occupied or r0 exceeds lb's
// energy.
func (s *Scheduler) eggAction(ctx context.Context, tx *store.Tx, env *store.Environment, lb *liveBug) (uint32, uint32, error) {
	front := world.Moved(lb.position, lb.orientation, world.MoveForward, s.Grid.Size())
	if used, err := s.Grid.Used(front); err != nil || used {
		return ops.ActionFailure, 0, nil
	}

	transferred := int64(lb.cpu.Reg(0))
	if transferred <= 0 || transferred > lb.energy {
		return ops.ActionFailure, 0, nil
	}

	code := append([]byte(nil), lb.cpu.Memory.Bytes()...)
	mutated, records := mutation.Apply(code, env.MutationsProbability, s.RNG)

	codeID, err := tx.PutCode(ctx, mutated, len(mutated))
	if err != nil {
		return 0, 0, err
	}
	fatherID := lb.bugID
	childID, err := tx.PutBug(ctx, store.Bug{CodeID: codeID, Creation: env.Time, FatherID: &fatherID})
	if err != nil {
		return 0, 0, err
	}
	if err := s.recordMutations(ctx, tx, env, childID, records); err != nil {
		return 0, 0, err
	}

	facing := lb.orientation
	worldID, err := tx.PutWorld(ctx, store.World{Position: front, Orientation: &facing})
	if err != nil {
		return 0, 0, err
	}
	if err := tx.PutEgg(ctx, store.Egg{BugID: childID, WorldID: worldID, Energy: transferred, MemoryID: codeID}); err != nil {
		return 0, 0, err
	}
	if err := s.Grid.Add(front, world.Occupant{Kind: world.KindEgg, ID: childID}); err != nil {
		return 0, 0, err
	}

	lb.energy -= transferred
	return ops.ActionSuccess, uint32(childID), nil
}
