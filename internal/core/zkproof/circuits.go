package zkproof

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/algebra/emulated/sw_emulated"
	"github.com/consensys/gnark/std/hash/mimc"
	"github.com/consensys/gnark/std/math/emulated"
	"github.com/consensys/gnark/std/signature/ecdsa"

	"github.com/weisyn/batchsig/pkg/types"
)

// ==================== 批量验证电路 ====================
//
// 两种方案的电路有相同的公开输入（ImageID, Output, Claim），顺序固定：
//   - Output 必须等于电路编译时的批次大小；
//   - 每个签名都在电路内验证；
//   - Claim = MiMC(ImageID, Output, 全部签名的私有输入)，把证明绑定到具体的批次。

// receiptInputs 只包含公开输入的赋值，用于构建公开见证
type receiptInputs struct {
	ImageID frontend.Variable `gnark:",public"`
	Output  frontend.Variable `gnark:",public"`
	Claim   frontend.Variable `gnark:",public"`
}

// Define 不会被调用，只为满足 frontend.Circuit
func (c *receiptInputs) Define(frontend.API) error {
	return nil
}

// newBatchCircuit 返回指定方案、指定批次大小的空电路，用于编译
func newBatchCircuit(scheme types.SignatureScheme, size int) (frontend.Circuit, error) {
	switch scheme {
	case types.SchemeEcdsaSecp256k1:
		return &ECDSABatchCircuit{Units: make([]ECDSAUnit, size)}, nil
	case types.SchemeEd25519:
		return &Ed25519BatchCircuit{Units: make([]Ed25519Unit, size)}, nil
	default:
		return nil, fmt.Errorf("no circuit for scheme %s", scheme)
	}
}

// receiptCommitment 约束输出与批次大小，并返回写入了 ImageID 和 Output 的 MiMC
func receiptCommitment(api frontend.API, imageID, output frontend.Variable, size int) (*mimc.MiMC, error) {
	api.AssertIsEqual(output, size)

	h, err := mimc.NewMiMC(api)
	if err != nil {
		return nil, err
	}
	h.Write(imageID, output)
	return &h, nil
}

// commitLimbs 把模拟域元素的各个 limb 写入承诺
func commitLimbs[T emulated.FieldParams](api frontend.API, h *mimc.MiMC, elems ...*emulated.Element[T]) {
	for _, e := range elems {
		e.Initialize(api.Compiler().Field())
		h.Write(e.Limbs...)
	}
}

// ==================== secp256k1 ECDSA ====================

// secp256k1HalfOrder low-S 的上界 ⌊n/2⌋
var secp256k1HalfOrder = new(big.Int).Rsh(ecc.SECP256K1.ScalarField(), 1)

// ECDSAUnit 一个 secp256k1 签名的私有输入
type ECDSAUnit struct {
	PubX, PubY emulated.Element[emulated.Secp256k1Fp]
	Hash       emulated.Element[emulated.Secp256k1Fr] // SHA-256(msg) 模 n
	R, S       emulated.Element[emulated.Secp256k1Fr]
}

// ECDSABatchCircuit secp256k1 ECDSA 批量验证电路
type ECDSABatchCircuit struct {
	// 公开输入
	ImageID frontend.Variable `gnark:",public"`
	Output  frontend.Variable `gnark:",public"`
	Claim   frontend.Variable `gnark:",public"`

	// 私有输入
	Units []ECDSAUnit
}

// Define 定义电路约束
func (circuit *ECDSABatchCircuit) Define(api frontend.API) error {
	h, err := receiptCommitment(api, circuit.ImageID, circuit.Output, len(circuit.Units))
	if err != nil {
		return err
	}

	params := sw_emulated.GetSecp256k1Params()
	curve, err := sw_emulated.New[emulated.Secp256k1Fp, emulated.Secp256k1Fr](api, params)
	if err != nil {
		return err
	}
	scalars, err := emulated.NewField[emulated.Secp256k1Fr](api)
	if err != nil {
		return err
	}
	halfOrder := scalars.NewElement(secp256k1HalfOrder)

	for i := range circuit.Units {
		u := &circuit.Units[i]
		commitLimbs(api, h, &u.PubX, &u.PubY)
		commitLimbs(api, h, &u.Hash, &u.R, &u.S)

		pt := sw_emulated.AffinePoint[emulated.Secp256k1Fp]{X: u.PubX, Y: u.PubY}
		curve.AssertIsOnCurve(&pt)

		// 与解码器一致，只接受 low-S
		scalars.AssertIsLessOrEqual(&u.S, halfOrder)

		pk := ecdsa.PublicKey[emulated.Secp256k1Fp, emulated.Secp256k1Fr](pt)
		pk.Verify(api, params, &u.Hash, &ecdsa.Signature[emulated.Secp256k1Fr]{R: u.R, S: u.S})
	}

	api.AssertIsEqual(h.Sum(), circuit.Claim)
	return nil
}
