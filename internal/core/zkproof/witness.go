package zkproof

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr/mimc"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/math/emulated"

	"github.com/weisyn/batchsig/internal/core/sigcodec"
	"github.com/weisyn/batchsig/internal/core/zkvm"
	"github.com/weisyn/batchsig/pkg/types"
)

// ClaimSize 声明值的字节长度
const ClaimSize = fr.Bytes

// 模拟域元素在承诺中按 4 个 64 位 limb 写入，与电路内的表示一致
const (
	claimLimbs    = 4
	claimLimbBits = 64
)

// reduceDigest 把 32 字节摘要归约到 BN254 标量域
func reduceDigest(digest [32]byte) fr.Element {
	var e fr.Element
	e.SetBytes(digest[:])
	return e
}

// claimHasher 电路外计算 Claim，写入顺序与电路 Define 相同
type claimHasher struct {
	elems []fr.Element
}

func newClaimHasher(imageID zkvm.ImageID, output uint32) *claimHasher {
	var out fr.Element
	out.SetUint64(uint64(output))
	return &claimHasher{elems: []fr.Element{reduceDigest(imageID), out}}
}

// limbs 写入一个规范表示的模拟域元素
func (c *claimHasher) limbs(values ...*big.Int) {
	mask := new(big.Int).SetUint64(^uint64(0))
	for _, v := range values {
		rest := new(big.Int).Set(v)
		for i := 0; i < claimLimbs; i++ {
			var e fr.Element
			e.SetBigInt(new(big.Int).And(rest, mask))
			c.elems = append(c.elems, e)
			rest.Rsh(rest, claimLimbBits)
		}
	}
}

// native 写入原生域元素
func (c *claimHasher) native(values ...*big.Int) {
	for _, v := range values {
		var e fr.Element
		e.SetBigInt(v)
		c.elems = append(c.elems, e)
	}
}

func (c *claimHasher) sum() (fr.Element, error) {
	h := mimc.NewMiMC()
	for i := range c.elems {
		b := c.elems[i].Bytes()
		if _, err := h.Write(b[:]); err != nil {
			return fr.Element{}, fmt.Errorf("mimc write: %w", err)
		}
	}
	var claim fr.Element
	if err := claim.SetBytesCanonical(h.Sum(nil)); err != nil {
		return fr.Element{}, fmt.Errorf("mimc sum: %w", err)
	}
	return claim, nil
}

// batchWitness 一次证明的完整赋值
type batchWitness struct {
	assignment frontend.Circuit
	claim      fr.Element
}

// ClaimBytes 声明值的规范编码
func (w *batchWitness) ClaimBytes() []byte {
	b := w.claim.Bytes()
	return b[:]
}

// newBatchWitness 解码批次中的每个签名并构建电路赋值
//
// imageID 是与电路绑定后的镜像标识，output 是程序提交的计数。
func newBatchWitness(scheme types.SignatureScheme, imageID zkvm.ImageID, output uint32, batch *types.BatchInput) (*batchWitness, error) {
	n := batch.Len()
	if n < 0 {
		return nil, fmt.Errorf("batch sequences have different lengths")
	}
	id := reduceDigest(imageID)
	hasher := newClaimHasher(imageID, output)

	var assignment frontend.Circuit
	var claimField *frontend.Variable
	switch scheme {
	case types.SchemeEcdsaSecp256k1:
		c := &ECDSABatchCircuit{ImageID: toBig(&id), Output: output, Units: make([]ECDSAUnit, n)}
		for i := 0; i < n; i++ {
			w, err := sigcodec.NewECDSAWitness(batch.PublicKeys[i], batch.Messages[i], batch.Signatures[i])
			if err != nil {
				return nil, fmt.Errorf("unit %d: %w", i, err)
			}
			c.Units[i] = ECDSAUnit{
				PubX: emulated.ValueOf[emulated.Secp256k1Fp](w.PubX),
				PubY: emulated.ValueOf[emulated.Secp256k1Fp](w.PubY),
				Hash: emulated.ValueOf[emulated.Secp256k1Fr](w.Hash),
				R:    emulated.ValueOf[emulated.Secp256k1Fr](w.R),
				S:    emulated.ValueOf[emulated.Secp256k1Fr](w.S),
			}
			hasher.limbs(w.PubX, w.PubY, w.Hash, w.R, w.S)
		}
		assignment, claimField = c, &c.Claim
	case types.SchemeEd25519:
		c := &Ed25519BatchCircuit{ImageID: toBig(&id), Output: output, Units: make([]Ed25519Unit, n)}
		for i := 0; i < n; i++ {
			w, err := sigcodec.NewEd25519Witness(batch.PublicKeys[i], batch.Messages[i], batch.Signatures[i])
			if err != nil {
				return nil, fmt.Errorf("unit %d: %w", i, err)
			}
			c.Units[i] = Ed25519Unit{
				AX: emulated.ValueOf[ed25519Fp](w.AX),
				AY: emulated.ValueOf[ed25519Fp](w.AY),
				RX: emulated.ValueOf[ed25519Fp](w.RX),
				RY: emulated.ValueOf[ed25519Fp](w.RY),
				S:  w.S,
				K:  w.K,
			}
			hasher.limbs(w.AX, w.AY, w.RX, w.RY)
			hasher.native(w.S, w.K)
		}
		assignment, claimField = c, &c.Claim
	default:
		return nil, fmt.Errorf("no circuit for scheme %s", scheme)
	}

	claim, err := hasher.sum()
	if err != nil {
		return nil, err
	}
	*claimField = toBig(&claim)
	return &batchWitness{assignment: assignment, claim: claim}, nil
}

// BatchClaim 计算批次在指定镜像下的声明值
//
// 持有原始批次的一方可以用它确认证明确实针对这个批次。
func BatchClaim(scheme types.SignatureScheme, imageID zkvm.ImageID, batch *types.BatchInput) ([]byte, error) {
	n := batch.Len()
	if n < 0 || n > int(^uint32(0)) {
		return nil, WrapInvalidWitnessError("batch length", fmt.Errorf("invalid length %d", n))
	}
	w, err := newBatchWitness(scheme, imageID, uint32(n), batch)
	if err != nil {
		return nil, WrapInvalidWitnessError("build witness", err)
	}
	return w.ClaimBytes(), nil
}

// publicAssignment 只包含公开输入的赋值
func publicAssignment(imageID zkvm.ImageID, output uint32, claim []byte) (*receiptInputs, error) {
	var c fr.Element
	if err := c.SetBytesCanonical(claim); err != nil {
		return nil, WrapInvalidProofError(fmt.Sprintf("claim is not a canonical field element: %v", err))
	}
	id := reduceDigest(imageID)
	return &receiptInputs{
		ImageID: toBig(&id),
		Output:  output,
		Claim:   toBig(&c),
	}, nil
}

func toBig(e *fr.Element) *big.Int {
	return e.BigInt(new(big.Int))
}
