package zkproof

import (
	"math/big"

	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/math/emulated"
)

// ==================== Ed25519 ====================
//
// gnark 只为 BN254 自身的扭曲爱德华曲线提供原生实现，这里在模拟域
// 2^255-19 上实现 a = -1 的完全加法公式，并检查 ZIP-215 的带余因子方程
//
//	[8]([S]B - R - [k]A) = O
//
// 点的解码和挑战值 k = SHA-512(R‖A‖M) mod L 在电路外完成，作为私有输入。

// ed25519ScalarBits S 与 k 都小于 L < 2^253
const ed25519ScalarBits = 253

var (
	ed25519Prime = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 255), big.NewInt(19))
	ed25519D, _  = new(big.Int).SetString("37095705934669439343138083508754565189542113879843219016388785533085940283555", 10)
	ed25519BX, _ = new(big.Int).SetString("15112221349535400772501151409588531511454012693041857206046113283949847762202", 10)
	ed25519BY, _ = new(big.Int).SetString("46316835694926478169428394003475163141307993866256225615783033603165251855960", 10)
)

// ed25519Fp 域 2^255-19 的模拟参数
type ed25519Fp struct{}

func (ed25519Fp) NbLimbs() uint     { return 4 }
func (ed25519Fp) BitsPerLimb() uint { return 64 }
func (ed25519Fp) IsPrime() bool     { return true }
func (ed25519Fp) Modulus() *big.Int { return ed25519Prime }

// Ed25519Unit 一个 Ed25519 签名的私有输入
type Ed25519Unit struct {
	AX, AY emulated.Element[ed25519Fp] // 公钥
	RX, RY emulated.Element[ed25519Fp] // 签名中的 R
	S      frontend.Variable
	K      frontend.Variable // SHA-512(R‖A‖M) mod L
}

// Ed25519BatchCircuit Ed25519 批量验证电路
type Ed25519BatchCircuit struct {
	// 公开输入
	ImageID frontend.Variable `gnark:",public"`
	Output  frontend.Variable `gnark:",public"`
	Claim   frontend.Variable `gnark:",public"`

	// 私有输入
	Units []Ed25519Unit
}

// Define 定义电路约束
func (circuit *Ed25519BatchCircuit) Define(api frontend.API) error {
	h, err := receiptCommitment(api, circuit.ImageID, circuit.Output, len(circuit.Units))
	if err != nil {
		return err
	}
	if len(circuit.Units) == 0 {
		api.AssertIsEqual(h.Sum(), circuit.Claim)
		return nil
	}

	curve, err := newEdwards(api)
	if err != nil {
		return err
	}
	for i := range circuit.Units {
		u := &circuit.Units[i]
		commitLimbs(api, h, &u.AX, &u.AY, &u.RX, &u.RY)
		h.Write(u.S, u.K)

		curve.verify(api, u)
	}

	api.AssertIsEqual(h.Sum(), circuit.Claim)
	return nil
}

// edPoint 仿射坐标的曲线点
type edPoint struct {
	X, Y *emulated.Element[ed25519Fp]
}

// edwards edwards25519 上的点运算
type edwards struct {
	f        *emulated.Field[ed25519Fp]
	d        *emulated.Element[ed25519Fp]
	identity edPoint
	base     edPoint
}

func newEdwards(api frontend.API) (*edwards, error) {
	f, err := emulated.NewField[ed25519Fp](api)
	if err != nil {
		return nil, err
	}
	return &edwards{
		f:        f,
		d:        f.NewElement(ed25519D),
		identity: edPoint{X: f.Zero(), Y: f.One()},
		base:     edPoint{X: f.NewElement(ed25519BX), Y: f.NewElement(ed25519BY)},
	}, nil
}

// add 完全加法：d 不是平方数，对曲线上任意两点（包括相同点）成立
func (e *edwards) add(p, q edPoint) edPoint {
	f := e.f
	x1y2 := f.Mul(p.X, q.Y)
	y1x2 := f.Mul(p.Y, q.X)
	x1x2 := f.Mul(p.X, q.X)
	y1y2 := f.Mul(p.Y, q.Y)
	dxy := f.Mul(e.d, f.Mul(x1x2, y1y2))
	return edPoint{
		X: f.Div(f.Add(x1y2, y1x2), f.Add(f.One(), dxy)),
		Y: f.Div(f.Add(y1y2, x1x2), f.Sub(f.One(), dxy)),
	}
}

func (e *edwards) neg(p edPoint) edPoint {
	return edPoint{X: e.f.Neg(p.X), Y: p.Y}
}

// assertOnCurve -x² + y² = 1 + d·x²·y²
func (e *edwards) assertOnCurve(p edPoint) {
	f := e.f
	xx := f.Mul(p.X, p.X)
	yy := f.Mul(p.Y, p.Y)
	f.AssertIsEqual(f.Sub(yy, xx), f.Add(f.One(), f.Mul(e.d, f.Mul(xx, yy))))
}

func (e *edwards) lookup2(b0, b1 frontend.Variable, table *[4]edPoint) edPoint {
	return edPoint{
		X: e.f.Lookup2(b0, b1, table[0].X, table[1].X, table[2].X, table[3].X),
		Y: e.f.Lookup2(b0, b1, table[0].Y, table[1].Y, table[2].Y, table[3].Y),
	}
}

// verify 约束 [8]([S]B - R - [k]A) = O
//
// [S]B + [k](-A) 用一次联合的倍点-加法循环计算。
func (e *edwards) verify(api frontend.API, u *Ed25519Unit) {
	a := edPoint{X: &u.AX, Y: &u.AY}
	r := edPoint{X: &u.RX, Y: &u.RY}
	e.assertOnCurve(a)
	e.assertOnCurve(r)

	sBits := api.ToBinary(u.S, ed25519ScalarBits)
	kBits := api.ToBinary(u.K, ed25519ScalarBits)

	negA := e.neg(a)
	table := [4]edPoint{e.identity, e.base, negA, e.add(e.base, negA)}

	acc := e.identity
	for i := ed25519ScalarBits - 1; i >= 0; i-- {
		acc = e.add(acc, acc)
		acc = e.add(acc, e.lookup2(sBits[i], kBits[i], &table))
	}
	acc = e.add(acc, e.neg(r))
	for i := 0; i < 3; i++ {
		acc = e.add(acc, acc)
	}

	e.f.AssertIsEqual(acc.X, e.f.Zero())
	e.f.AssertIsEqual(acc.Y, e.f.One())
}
